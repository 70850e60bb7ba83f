package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func article(headline string) Article {
	return Article{Headline: lo.ToPtr(headline)}
}

func TestRecords_Append(t *testing.T) {
	recs := NewRecords()

	type change struct{ from, to int }
	var changes []change
	recs.Subscribe(func(_ context.Context, from, to int) {
		// subscribers must be able to read the collection back
		assert.Equal(t, to, recs.Count())
		changes = append(changes, change{from: from, to: to})
	})

	recs.Append(context.Background(), article("a"), article("b"))
	recs.Append(context.Background())
	recs.Append(context.Background(), article("c"))

	require.Equal(t, 3, recs.Count())
	for i, h := range []string{"a", "b", "c"} {
		assert.Equal(t, article(h), recs.At(i))
	}
	assert.Equal(t, "b", Value(recs.At(1).Headline))
	assert.Equal(t, []change{{0, 2}, {2, 2}, {2, 3}}, changes)
}

func TestRecords_AtOutOfRange(t *testing.T) {
	recs := NewRecords()
	recs.Append(context.Background(), article("a"))

	assert.NotPanics(t, func() { recs.At(0) })
	assert.Panics(t, func() { recs.At(1) })
	assert.Panics(t, func() { recs.At(-1) })
}

func TestRecords_Clear(t *testing.T) {
	recs := NewRecords()
	calls := 0
	recs.Subscribe(func(context.Context, int, int) { calls++ })

	recs.Append(context.Background(), article("a"))
	recs.Clear()
	assert.Equal(t, 0, recs.Count())

	recs.Append(context.Background(), article("b"))
	assert.Equal(t, 1, recs.Count())
	assert.Equal(t, 2, calls)
}

func TestRecords_ConcurrentAppendsKeepBatchesContiguous(t *testing.T) {
	recs := NewRecords()

	const writers, batch = 8, 5

	wg := &sync.WaitGroup{}
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func(w int) {
			defer wg.Done()
			arts := make([]Article, batch)
			for i := range arts {
				arts[i] = article(fmt.Sprintf("%d-%d", w, i))
			}
			recs.Append(context.Background(), arts...)
		}(w)
	}
	wg.Wait()

	require.Equal(t, writers*batch, recs.Count())
	for start := 0; start < recs.Count(); start += batch {
		var writer, idx int
		_, err := fmt.Sscanf(Value(recs.At(start).Headline), "%d-%d", &writer, &idx)
		require.NoError(t, err)
		for i := 0; i < batch; i++ {
			assert.Equal(t, fmt.Sprintf("%d-%d", writer, i), Value(recs.At(start+i).Headline))
		}
	}
}
