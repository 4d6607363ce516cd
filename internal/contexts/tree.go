package contexts

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultMaxDepth keeps the tree small enough to read.
const DefaultMaxDepth = 5

// Sample is one labeled training row. Features may omit columns.
type Sample struct {
	Features map[string]float64
	Label    Label
}

// Trainer builds a Predictor from labeled samples. candidates names the
// feature columns the trainer may use, in order.
type Trainer interface {
	Train(samples []Sample, candidates []string) (Predictor, error)
}

// TreeTrainer trains a Model.
type TreeTrainer struct {
	MaxDepth int
}

func (t TreeTrainer) Train(samples []Sample, candidates []string) (Predictor, error) {
	m, err := Train(samples, candidates, t.MaxDepth)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Model is a CART classification tree over a fixed, ordered feature set.
type Model struct {
	// FeatureNames is the column order established at training time.
	FeatureNames []string
	// Rows is the number of samples the tree was fit on.
	Rows int

	labels []Label
	root   *node
}

type node struct {
	leaf      bool
	label     Label
	samples   int
	feature   int
	threshold float64
	left      *node // feature <= threshold
	right     *node
}

// Train fits a classification tree. A candidate column is usable when any
// sample carries it; rows missing a usable column or a label are dropped.
func Train(samples []Sample, candidates []string, maxDepth int) (*Model, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var names []string
	for _, c := range candidates {
		for _, s := range samples {
			if _, ok := s.Features[c]; ok {
				names = append(names, c)
				break
			}
		}
	}
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: %d usable feature columns [%s], need at least 2",
			ErrInsufficientTrainingData, len(names), strings.Join(names, ", "))
	}

	var x [][]float64
	var y []Label
	for _, s := range samples {
		if s.Label == "" {
			continue
		}
		row, ok := vector(s.Features, names)
		if !ok {
			continue
		}
		x = append(x, row)
		y = append(y, s.Label)
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: no complete rows for [%s]",
			ErrInsufficientTrainingData, strings.Join(names, ", "))
	}

	m := &Model{FeatureNames: names, Rows: len(x)}
	seen := make(map[Label]bool)
	for _, l := range y {
		if !seen[l] {
			seen[l] = true
			m.labels = append(m.labels, l)
		}
	}
	sort.Slice(m.labels, func(i, j int) bool { return m.labels[i] < m.labels[j] })

	b := builder{x: x, y: make([]int, len(y)), nFeatures: len(names), nLabels: len(m.labels), maxDepth: maxDepth}
	for i, l := range y {
		b.y[i] = sort.Search(len(m.labels), func(j int) bool { return m.labels[j] >= l })
	}
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	m.root = b.grow(idx, 0, m.labels)
	return m, nil
}

func vector(features map[string]float64, names []string) ([]float64, bool) {
	row := make([]float64, len(names))
	for i, n := range names {
		v, ok := features[n]
		if !ok || math.IsNaN(v) {
			return nil, false
		}
		row[i] = v
	}
	return row, true
}

// Predict walks the tree. Every training feature must be supplied; extra
// keys are ignored.
func (m *Model) Predict(features map[string]float64) (Label, error) {
	row := make([]float64, len(m.FeatureNames))
	for i, n := range m.FeatureNames {
		v, ok := features[n]
		if !ok {
			return "", &MissingFeatureError{Feature: n}
		}
		row[i] = v
	}
	n := m.root
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.label, nil
}

// Depth is the length of the longest root to leaf path.
func (m *Model) Depth() int {
	var walk func(n *node) int
	walk = func(n *node) int {
		if n.leaf {
			return 0
		}
		return 1 + max(walk(n.left), walk(n.right))
	}
	return walk(m.root)
}

// String renders the tree as indented rules.
func (m *Model) String() string {
	var sb strings.Builder
	var walk func(n *node, indent string)
	walk = func(n *node, indent string) {
		if n.leaf {
			fmt.Fprintf(&sb, "%s-> %s (%d)\n", indent, n.label, n.samples)
			return
		}
		name := m.FeatureNames[n.feature]
		fmt.Fprintf(&sb, "%s%s <= %.3f\n", indent, name, n.threshold)
		walk(n.left, indent+"  ")
		fmt.Fprintf(&sb, "%s%s > %.3f\n", indent, name, n.threshold)
		walk(n.right, indent+"  ")
	}
	walk(m.root, "")
	return sb.String()
}

type builder struct {
	x         [][]float64
	y         []int
	nFeatures int
	nLabels   int
	maxDepth  int
}

func (b *builder) grow(idx []int, depth int, labels []Label) *node {
	counts := b.count(idx)
	n := &node{samples: len(idx), label: labels[majority(counts)]}
	if depth >= b.maxDepth || gini(counts, len(idx)) == 0 {
		n.leaf = true
		return n
	}

	feature, threshold, ok := b.bestSplit(idx, counts)
	if !ok {
		n.leaf = true
		return n
	}
	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	n.feature, n.threshold = feature, threshold
	n.left = b.grow(left, depth+1, labels)
	n.right = b.grow(right, depth+1, labels)
	return n
}

// bestSplit finds the axis-aligned split with the lowest weighted Gini
// impurity. Thresholds sit halfway between adjacent distinct values and the
// first best split found wins ties.
func (b *builder) bestSplit(idx []int, totals []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	best := math.Inf(1)
	sorted := make([]int, n)
	left := make([]int, b.nLabels)
	right := make([]int, b.nLabels)

	for f := 0; f < b.nFeatures; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})
		for i := range left {
			left[i] = 0
		}
		copy(right, totals)

		for i := 0; i < n-1; i++ {
			c := b.y[sorted[i]]
			left[c]++
			right[c]--
			v, next := b.x[sorted[i]][f], b.x[sorted[i+1]][f]
			if v == next {
				continue
			}
			nl, nr := i+1, n-i-1
			impurity := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / float64(n)
			if impurity < best {
				best = impurity
				feature, threshold, ok = f, (v+next)/2, true
			}
		}
	}
	return feature, threshold, ok
}

func (b *builder) count(idx []int) []int {
	counts := make([]int, b.nLabels)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		g -= p * p
	}
	return g
}

// majority picks the most frequent label index. Labels are sorted, so ties
// go to the alphabetically first label.
func majority(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}
