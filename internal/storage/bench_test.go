package storage

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"habits/internal/habit"
)

func benchHabits(b *testing.B, n, completions int) []*habit.Habit {
	b.Helper()
	start := stamp(b, "2023-01-01 07:00:00")
	out := make([]*habit.Habit, 0, n)
	for i := 0; i < n; i++ {
		period := habit.Daily
		if i%3 == 0 {
			period = habit.Weekly
		}
		h := habit.New(fmt.Sprintf("Habit %d", i), "h", period, start)
		for c := 0; c < completions; c++ {
			h.Complete(start.Add(time.Duration(c) * 24 * time.Hour))
		}
		out = append(out, h)
	}
	return out
}

// BenchmarkEncode measures serialization with varying collection sizes.
func BenchmarkEncode(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			habits := benchHabits(b, size, 30)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := Encode(io.Discard, habits); err != nil {
					b.Fatalf("Encode failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkDecode measures parsing with varying collection sizes.
func BenchmarkDecode(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			var buf bytes.Buffer
			if err := Encode(&buf, benchHabits(b, size, 30)); err != nil {
				b.Fatal(err)
			}
			data := buf.Bytes()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Decode(bytes.NewReader(data)); err != nil {
					b.Fatalf("Decode failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkSaveRead measures a full file round trip.
func BenchmarkSaveRead(b *testing.B) {
	store, err := NewOrg(filepath.Join(b.TempDir(), "habits.org"))
	if err != nil {
		b.Fatal(err)
	}
	habits := benchHabits(b, 100, 365)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Save(habits); err != nil {
			b.Fatalf("Save failed: %v", err)
		}
		if _, err := store.Read(); err != nil {
			b.Fatalf("Read failed: %v", err)
		}
	}
}
