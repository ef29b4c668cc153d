package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: log.DebugLevel})
}

// FuzzDecode feeds arbitrary input to the decoder to ensure it never panics
// and that whatever it accepts survives an encode/decode round trip.
func FuzzDecode(f *testing.F) {
	f.Add(sampleOrg)
	f.Add("")
	f.Add("\n\n\n")
	f.Add("* TODO\n")
	f.Add("* DONE x\n:streak: 3\n")
	f.Add("* TODO x y\n:longest streak: 1 [2024-01-01 00:00:00]\n")
	f.Add("* TODO x y\n:longest streak: None\n:period: Daily\n:created: [2024-01-01 00:00:00]\n:streak: 0\n")
	f.Add("- [2024-01-01 00:00:00]\n- [2023-01-01 00:00:00]\n")
	f.Add(strings.Repeat("* TODO a b\n", 50))
	f.Add("\x00\x01\x02")
	f.Add("* TODO 🎉 unicode name ✨\n")

	f.Fuzz(func(t *testing.T, in string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Decode panicked with input %q: %v", in, r)
			}
		}()

		habits, err := Decode(strings.NewReader(in))
		if err != nil {
			return
		}

		var buf bytes.Buffer
		if err := Encode(&buf, habits); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		again, err := Decode(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("re-decode of encoded output failed: %v\n%s", err, buf.String())
		}
		if len(again) != len(habits) {
			t.Fatalf("round trip changed habit count: %d -> %d", len(habits), len(again))
		}
		for i := range habits {
			for j := 1; j < len(again[i].CompletedTimes); j++ {
				if again[i].CompletedTimes[j].Before(again[i].CompletedTimes[j-1]) {
					t.Fatalf("completion times not ascending for %q", again[i].Name)
				}
			}
		}
	})
}
