//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "shop-api"
	ConsumerName = "storefront-web"

	StateCatalogBaseline = "catalog baseline"
	StateProductExists   = "product 1 exists in category 1"
	StateProductMissing  = "no product with id 404"
	StateNoSuchAccount   = "no account named ghost-user"
)

const (
	ExistingProductID  int64 = 1
	ExistingCategoryID int64 = 1
	MissingProductID   int64 = 404

	MissingUsername = "ghost-user"
	WrongPassword   = "not-the-password"
)

const (
	ExampleCategoryName = "Sneakers"
	ExampleProductName  = "Pact Runner"
	ExampleProductPrice = "250000"
	ExampleProductStock = 7
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload is the product a shopper sees on the detail page.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":          ExistingProductID,
		"name":        ExampleProductName,
		"description": "Contract test shoe",
		"price":       250000,
		"stock":       ExampleProductStock,
		"active":      true,
		"categoryId":  ExistingCategoryID,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
