package domain

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderCode returns ORD-<epochMillis>-<10 hex chars>.
func NewOrderCode(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}

var plateRegions = []string{"B", "D", "F", "L", "N"}

// RandomCourier issues Indonesian-style mobile numbers and licence plates.
type RandomCourier struct{}

// Phone returns "08" followed by a number in [100000000, 999999999).
func (RandomCourier) Phone() string {
	return fmt.Sprintf("08%d", 100000000+rand.Int64N(899999999))
}

// Plate returns "<region> <1000-9998> <two letters>".
func (RandomCourier) Plate() string {
	region := plateRegions[rand.IntN(len(plateRegions))]
	num := 1000 + rand.IntN(8999)
	a := rune('A' + rand.IntN(26))
	b := rune('A' + rand.IntN(26))
	return fmt.Sprintf("%s %d %c%c", region, num, a, b)
}
