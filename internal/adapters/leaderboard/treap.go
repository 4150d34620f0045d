package leaderboard

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/okian/savor/pkg/metrics"
)

// Treap-based, in-memory Index implementation.
//
// Ordering: score DESC, then restaurant id ASC (deterministic). The BST
// comparator treats "less" as "ranks earlier", so an in-order traversal
// produces the leaderboard from best to worst. Nodes carry subtree sizes,
// which makes offset selection and rank queries O(log n) expected.

// scoreScale controls fixed-point scaling from float64. Scores arrive
// pre-rounded to two decimals; six digits keeps comparisons exact with
// headroom.
const scoreScale = 1_000_000

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	return scoreFP(math.Round(x * scoreScale))
}

func toFloat(x scoreFP) float64 {
	return float64(x) / scoreScale
}

// treap node
type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) ranks earlier than (bScore, bID).
func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore // higher score ranks earlier
	}
	return aID < bID // tie-breaker by id asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, score scoreFP, prio uint64) *node {
	if n == nil {
		return &node{id: id, score: score, prio: prio, size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.score && id == n.id {
		// Rotate the higher-priority child up until the node is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	} else if less(score, id, n.score, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// appendDesc appends up to *need entries starting at in-order position
// offset (best first), using subtree sizes to skip whole branches.
func appendDesc(n *node, offset int, need *int, out *[]Entry) {
	if n == nil || *need <= 0 {
		return
	}
	ls := nsize(n.left)
	if offset < ls {
		appendDesc(n.left, offset, need, out)
	}
	if *need <= 0 {
		return
	}
	if offset <= ls {
		*out = append(*out, Entry{RestaurantID: n.id, Score: toFloat(n.score)})
		*need--
	}
	rightOffset := offset - ls - 1
	if rightOffset < 0 {
		rightOffset = 0
	}
	appendDesc(n.right, rightOffset, need, out)
}

// appendAsc mirrors appendDesc in reverse in-order (worst first).
func appendAsc(n *node, offset int, need *int, out *[]Entry) {
	if n == nil || *need <= 0 {
		return
	}
	rs := nsize(n.right)
	if offset < rs {
		appendAsc(n.right, offset, need, out)
	}
	if *need <= 0 {
		return
	}
	if offset <= rs {
		*out = append(*out, Entry{RestaurantID: n.id, Score: toFloat(n.score)})
		*need--
	}
	leftOffset := offset - rs - 1
	if leftOffset < 0 {
		leftOffset = 0
	}
	appendAsc(n.left, leftOffset, need, out)
}

// TreapIndex implements Index with an in-memory treap.
type TreapIndex struct {
	mu   sync.RWMutex
	root *node
	byID map[string]scoreFP
	rng  *rand.Rand
}

// NewTreapIndex constructs an empty treap index.
func NewTreapIndex(opts ...Option) *TreapIndex {
	idx := &TreapIndex{
		byID: make(map[string]scoreFP),
		rng:  rand.New(rand.NewSource(rand.Int63())), //nolint:gosec // priorities only need to be well-mixed, not secret
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Upsert inserts or replaces the entry for id in O(log n) expected time.
func (t *TreapIndex) Upsert(ctx context.Context, id string, score float64) error {
	ns := toFixedPoint(score)

	t.mu.Lock()
	if old, ok := t.byID[id]; ok {
		if old == ns {
			t.mu.Unlock()
			return nil // same score, nothing to move
		}
		t.root = deleteNode(t.root, id, old)
	}
	t.byID[id] = ns
	t.root = insert(t.root, id, ns, t.rng.Uint64())
	size := len(t.byID)
	t.mu.Unlock()

	metrics.RecordLeaderboardUpdate()
	metrics.UpdateLeaderboardSize(size)
	return nil
}

// Remove deletes the entry for id if present.
func (t *TreapIndex) Remove(ctx context.Context, id string) error {
	t.mu.Lock()
	old, ok := t.byID[id]
	if !ok {
		t.mu.Unlock()
		return nil
	}
	t.root = deleteNode(t.root, id, old)
	delete(t.byID, id)
	size := len(t.byID)
	t.mu.Unlock()

	metrics.RecordLeaderboardUpdate()
	metrics.UpdateLeaderboardSize(size)
	return nil
}

// Score returns the current score for id.
func (t *TreapIndex) Score(ctx context.Context, id string) (float64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	fp, ok := t.byID[id]
	if !ok {
		return 0, ErrNotFound
	}
	return toFloat(fp), nil
}

// Rank returns the entry for id with its 1-based descending rank,
// in O(log n) expected time.
func (t *TreapIndex) Rank(ctx context.Context, id string) (Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	fp, ok := t.byID[id]
	if !ok {
		return Entry{}, ErrNotFound
	}

	pos := 0
	n := t.root
	for n != nil {
		if n.id == id && n.score == fp {
			pos += nsize(n.left)
			return Entry{Rank: pos + 1, RestaurantID: id, Score: toFloat(fp)}, nil
		}
		if less(fp, id, n.score, n.id) {
			n = n.left
		} else {
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return Entry{}, ErrNotFound
}

// RangeDesc returns up to count entries from position offset, best first.
func (t *TreapIndex) RangeDesc(ctx context.Context, offset, count int) ([]Entry, error) {
	if offset < 0 || count < 0 {
		return nil, ErrInvalidRange
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, 0, count)
	need := count
	appendDesc(t.root, offset, &need, &out)
	for i := range out {
		out[i].Rank = offset + i + 1
	}
	return out, nil
}

// RangeAsc returns up to count entries from position offset counted from
// the worst entry. Ranks are still global descending ranks, so the worst
// restaurant of a full board reports rank Count, not rank 1.
func (t *TreapIndex) RangeAsc(ctx context.Context, offset, count int) ([]Entry, error) {
	if offset < 0 || count < 0 {
		return nil, ErrInvalidRange
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	total := len(t.byID)
	out := make([]Entry, 0, count)
	need := count
	appendAsc(t.root, offset, &need, &out)
	for i := range out {
		out[i].Rank = total - (offset + i)
	}
	return out, nil
}

// Count returns the number of ranked restaurants.
func (t *TreapIndex) Count(ctx context.Context) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

// ReplaceAll atomically swaps the index contents for scores.
func (t *TreapIndex) ReplaceAll(ctx context.Context, scores map[string]float64) error {
	byID := make(map[string]scoreFP, len(scores))

	t.mu.Lock()
	var root *node
	for id, score := range scores {
		fp := toFixedPoint(score)
		byID[id] = fp
		root = insert(root, id, fp, t.rng.Uint64())
	}
	t.root = root
	t.byID = byID
	size := len(byID)
	t.mu.Unlock()

	metrics.UpdateLeaderboardSize(size)
	return nil
}
