package ranker

import (
	"container/heap"
)

type ScoredTerm struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// TopK returns the k highest-scoring terms of scores, best first. Equal
// scores are ordered by term so the output is reproducible. scores is not
// modified.
func TopK(scores map[string]float64, k int) []ScoredTerm {
	if k <= 0 {
		return []ScoredTerm{}
	}
	h := make(scoredTermHeap, 0, min(k, len(scores))+1)
	for term, score := range scores {
		heap.Push(&h, ScoredTerm{Term: term, Score: score})
		if h.Len() > k {
			heap.Pop(&h)
		}
	}
	result := make([]ScoredTerm, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(ScoredTerm)
	}
	return result
}

// Less reports whether a ranks before b.
func Less(a, b ScoredTerm) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Term < b.Term
}

// scoredTermHeap is a min-heap on rank: the root is the worst-ranked entry
// kept so far.
type scoredTermHeap []ScoredTerm

func (h scoredTermHeap) Len() int { return len(h) }

func (h scoredTermHeap) Less(i, j int) bool { return Less(h[j], h[i]) }

func (h scoredTermHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *scoredTermHeap) Push(x interface{}) {
	*h = append(*h, x.(ScoredTerm))
}

func (h *scoredTermHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
