// booking/reference.go
package booking

import (
	"fmt"
	"time"

	"github.com/thanhpk/randstr"
)

// Charset without 0/O/1/I/l so references survive being read over the phone.
const referenceCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const referenceRetries = 5

// NewReference builds a booking code like SRH-20240601-K7M2QX: a
// date-derived prefix plus a random suffix. Uniqueness is enforced by the
// store's unique index; on collision the creator calls this again.
func NewReference(day time.Time) string {
	return fmt.Sprintf("SRH-%s-%s", day.UTC().Format("20060102"), randstr.String(6, referenceCharset))
}
