package words

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"pencil/internal/domain"
	"pencil/internal/logger"
)

//go:embed words.txt
var embeddedWords string

type Source interface {
	NextWordBatch(ctx context.Context, n int) ([]string, error)
}

// List serves random words from memory.
type List struct {
	words []string
}

func NewList(words []string) *List {
	return &List{words: words}
}

// Embedded is the list compiled into the binary.
func Embedded() *List {
	return NewList(parseLines(embeddedWords))
}

func (l *List) Len() int {
	return len(l.words)
}

func (l *List) Words() []string {
	return slices.Clone(l.words)
}

// Seeder is a word store that can be filled from a List.
type Seeder interface {
	AddWords(ctx context.Context, words []string) (int, error)
	CountWords(ctx context.Context) (int, error)
}

// Seed copies the list into the store, skipping words it already holds, and
// returns how many were added.
func Seed(ctx context.Context, store Seeder, list *List) (int, error) {
	added, err := store.AddWords(ctx, list.Words())
	if err != nil {
		return 0, fmt.Errorf("seeding words: %w", err)
	}
	total, err := store.CountWords(ctx)
	if err != nil {
		return added, fmt.Errorf("counting words: %w", err)
	}
	logger.Infof("[Words] Seeded %d new words, %d stored", added, total)
	return added, nil
}

// NextWordBatch returns up to n distinct words in random order.
func (l *List) NextWordBatch(ctx context.Context, n int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(l.words) == 0 {
		return nil, domain.ErrNoWords
	}
	n = min(n, len(l.words))
	batch := make([]string, 0, n)
	for _, i := range rand.Perm(len(l.words))[:n] {
		batch = append(batch, l.words[i])
	}
	return batch, nil
}

func parseLines(s string) []string {
	var out []string
	seen := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Supply asks the primary source first and tops the batch up from the
// fallback when the primary fails or runs short.
type Supply struct {
	primary  Source
	fallback Source
}

// NewSupply accepts a nil primary, in which case only the fallback is used.
func NewSupply(primary, fallback Source) *Supply {
	return &Supply{primary: primary, fallback: fallback}
}

func (s *Supply) NextWordBatch(ctx context.Context, n int) ([]string, error) {
	var batch []string
	if s.primary != nil {
		words, err := s.primary.NextWordBatch(ctx, n)
		if err != nil {
			logger.Warningf("[Words] Primary source failed, using fallback: %v", err)
		}
		batch = words
	}
	if len(batch) >= n {
		return batch[:n], nil
	}

	extra, err := s.fallback.NextWordBatch(ctx, n+len(batch))
	if err != nil {
		if len(batch) > 0 {
			return batch, nil
		}
		return nil, err
	}
	for _, w := range extra {
		if len(batch) == n {
			break
		}
		if !slices.Contains(batch, w) {
			batch = append(batch, w)
		}
	}
	return batch, nil
}
