package xmltv

import (
	"fmt"
	"strings"
	"time"

	"github.com/githubixx/xmltv-epg-go/internal/domain"
)

// timestampLayout is the XMLTV timestamp shape: full seconds plus a numeric
// zone offset, e.g. "20230917203000 +0200".
const timestampLayout = "20060102150405 -0700"

// ParseTime parses an XMLTV programme timestamp. The zone offset is
// required; timestamps without one are rejected rather than guessed at.
func ParseTime(raw string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", domain.ErrInvalidInput, raw)
	}
	return t, nil
}
