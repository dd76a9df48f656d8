package domain

import "context"

// VocabularyStore is the append-only ranked word list. Uniqueness is enforced
// by the scheduler before Append is called.
type VocabularyStore interface {
	Load(ctx context.Context) ([]string, error)
	Append(ctx context.Context, word string) error
}

// DifficultyStore persists the whole difficulty model. Load reports
// found=false when nothing has been saved yet.
type DifficultyStore interface {
	Load(ctx context.Context) (model DifficultyModel, found bool, err error)
	Save(ctx context.Context, model DifficultyModel) error
}
