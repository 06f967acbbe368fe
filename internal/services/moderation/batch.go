package moderation

import (
	"context"
	"fmt"

	"reclaim/internal/services"
)

// BatchResult reports the outcome of moderating a set of images.
type BatchResult struct {
	// SafeIndexes are positions in the input batch that passed.
	SafeIndexes []int
	// Flagged counts images classified unsafe and excluded from the batch.
	Flagged int
}

// CheckBatch moderates each image independently. Unsafe images are dropped
// from the safe subset and counted; the rest of the batch still succeeds. An
// indeterminate verdict or a classifier error rejects the entire batch, so a
// partial-but-ambiguous set can never be added.
func CheckBatch(ctx context.Context, gate Gate, images [][]byte) (BatchResult, error) {
	result := BatchResult{}
	for i, image := range images {
		verdict, err := gate.CheckImage(ctx, image)
		if err != nil {
			return BatchResult{}, services.Wrap(services.ErrUnavailable, "moderation", "check batch",
				fmt.Sprintf("image %d of %d", i+1, len(images)), err)
		}
		switch verdict {
		case Safe:
			result.SafeIndexes = append(result.SafeIndexes, i)
		case Unsafe:
			result.Flagged++
		default:
			return BatchResult{}, services.Wrap(services.ErrModeration, "moderation", "check batch",
				fmt.Sprintf("image %d of %d returned an indeterminate verdict", i+1, len(images)), nil)
		}
	}
	return result, nil
}
