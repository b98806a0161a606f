package frame

import (
	"fmt"
	"math"
	"math/rand"
)

// Split partitions the frame into train and eval slices. The eval slice
// gets ceil(rows*fraction) rows drawn by a seeded permutation, so the same
// seed always yields the same partition. Row order inside each slice
// follows the source frame.
func (f *Frame) Split(fraction float64, seed int64) (train, eval *Frame, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("frame: eval fraction %v outside (0, 1)", fraction)
	}

	n := f.NumRows()
	nEval := int(math.Ceil(float64(n) * fraction))

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	evalRows := sortedCopy(perm[:nEval])
	trainRows := sortedCopy(perm[nEval:])

	return f.subset(trainRows), f.subset(evalRows), nil
}
