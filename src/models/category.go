package models

type Bucket string

const (
	BucketNeeds  Bucket = "NEEDS"
	BucketWants  Bucket = "WANTS"
	BucketFuture Bucket = "FUTURE"
)

type Category struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Bucket   Bucket `json:"bucket_50_30_20"`
	IsActive bool   `json:"is_active"`
}

// DedupeCategories collapses rows that share (name, emoji), keeping the row
// with the lowest id. Duplicate rows can exist in storage; consumers must
// never see more than one of them.
func DedupeCategories(categories []Category) []Category {
	type key struct {
		name  string
		emoji string
	}
	seen := make(map[key]int, len(categories))
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		k := key{c.Name, c.Emoji}
		if i, ok := seen[k]; ok {
			if c.ID < out[i].ID {
				out[i] = c
			}
			continue
		}
		seen[k] = len(out)
		out = append(out, c)
	}
	return out
}
