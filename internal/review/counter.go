package review

import "sort"

// TopN is the length limit of every ranking in a yearly review.
const TopN = 10

// counter is a frequency table that remembers the order keys were first seen in.
type counter[K comparable] struct {
	order  []K
	counts map[K]int
}

type rankedKey[K comparable] struct {
	key   K
	count int
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) add(key K) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter[K]) len() int {
	return len(c.order)
}

// top returns at most n keys by descending count. Equal counts keep first-seen order.
func (c *counter[K]) top(n int) []rankedKey[K] {
	entries := make([]rankedKey[K], 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, rankedKey[K]{key: key, count: c.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
