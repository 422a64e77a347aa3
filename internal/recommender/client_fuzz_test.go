package recommender

import (
	"bytes"
	"testing"
)

func FuzzDecodeRecommendations(f *testing.F) {
	seeds := []string{
		`{"recommendations":[{"movieId":"ext-7","title":"Seven","score":0.9}]}`,
		`{"recommendations":[{"movieId":42,"score":0.5}]}`,
		`{"recommendations":[]}`,
		`{"recommendations":null}`,
		`{}`,
		`not json`,
		`{"recommendations":[{"movieId":true}]}`,
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		recs, err := decodeRecommendations(bytes.NewReader(data))
		if err != nil {
			return
		}
		for _, rec := range recs {
			if rec.MovieID == "" {
				t.Fatalf("decoded recommendation with empty movieId")
			}
		}
	})
}
