// Package scan orchestrates a full menu scan: extraction, strain
// resolution and preference-weighted similarity scoring, reported as a
// monotonic ParseStatus sequence.
package scan

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/terpmatch/terpmatch/extract"
	"github.com/terpmatch/terpmatch/llm"
	"github.com/terpmatch/terpmatch/log"
	"github.com/terpmatch/terpmatch/model"
	"github.com/terpmatch/terpmatch/similarity"
	"github.com/terpmatch/terpmatch/store"
	"github.com/terpmatch/terpmatch/tiler"
)

// Scanner runs menu scans against a provider and the strain and
// preference stores.
type Scanner struct {
	provider llm.Provider
	strains  store.StrainStore
	prefs    store.PreferenceStore
	resolver *Resolver
	tiler    *tiler.Tiler
	logger   log.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// WithTiler overrides the image tiler used for photo scans.
func WithTiler(t *tiler.Tiler) Option {
	return func(s *Scanner) { s.tiler = t }
}

// New creates a Scanner.
func New(provider llm.Provider, strains store.StrainStore, prefs store.PreferenceStore, opts ...Option) *Scanner {
	s := &Scanner{
		provider: provider,
		strains:  strains,
		prefs:    prefs,
		tiler:    tiler.New(),
		logger:   log.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = NewResolver(provider, strains, s.logger)
	return s
}

// ScanImage scans a menu photo. The returned channel emits a monotonic
// status sequence ending in StageComplete or StageError, then closes.
func (s *Scanner) ScanImage(ctx context.Context, image []byte) <-chan model.ParseStatus {
	return s.start(ctx, func(ctx context.Context, emit func(model.ParseStatus) bool) ([]model.ExtractedStrain, error) {
		pipeline := extract.NewVisionPipeline(s.provider,
			extract.WithVisionTiler(s.tiler),
			extract.WithVisionLogger(s.logger),
			extract.WithVisionProgress(func(done, total int) {
				emit(model.Extracting(done, total))
			}),
		)
		return pipeline.Extract(ctx, image)
	})
}

// ScanHTML scans a saved menu page.
func (s *Scanner) ScanHTML(ctx context.Context, html string) <-chan model.ParseStatus {
	return s.start(ctx, func(ctx context.Context, emit func(model.ParseStatus) bool) ([]model.ExtractedStrain, error) {
		pipeline := extract.NewTextPipeline(s.provider,
			extract.WithTextLogger(s.logger),
			extract.WithTextProgress(func(count int) {
				emit(model.ParseStatus{Stage: model.StageProductsFound, Current: count, Total: count})
			}),
		)
		return pipeline.Extract(ctx, html)
	})
}

type extractFunc func(ctx context.Context, emit func(model.ParseStatus) bool) ([]model.ExtractedStrain, error)

func (s *Scanner) start(ctx context.Context, ex extractFunc) <-chan model.ParseStatus {
	ch := make(chan model.ParseStatus)
	go func() {
		defer close(ch)
		emit := func(status model.ParseStatus) bool {
			select {
			case ch <- status:
				return true
			case <-ctx.Done():
				return false
			}
		}
		s.run(ctx, emit, ex)
	}()
	return ch
}

func (s *Scanner) run(ctx context.Context, emit func(model.ParseStatus) bool, ex extractFunc) {
	scanID := uuid.NewString()
	s.logger.Info("scan %s: started", scanID)

	if ctx.Err() != nil {
		return
	}
	if !emit(model.ParseStatus{Stage: model.StageFetching}) {
		return
	}
	if !emit(model.ParseStatus{Stage: model.StageFetchComplete}) {
		return
	}

	extracted, err := ex(ctx, emit)
	if err != nil {
		s.logger.Error("scan %s: extraction failed: %v", scanID, err)
		emit(model.Failed(err))
		return
	}
	if len(extracted) == 0 {
		s.logger.Warn("scan %s: no strains extracted", scanID)
		emit(model.Failed(&model.ParseFailure{Detail: "no strains found on the menu"}))
		return
	}
	s.logger.Info("scan %s: extracted %d strains", scanID, len(extracted))

	// Snapshot preferences before scoring so a concurrent like does not
	// shift the profile mid-scan.
	liked, err := s.prefs.Liked(ctx)
	if err != nil {
		emit(model.Failed(err))
		return
	}
	disliked, err := s.prefs.Disliked(ctx)
	if err != nil {
		emit(model.Failed(err))
		return
	}

	var resolved []model.StrainData
	for i, e := range extracted {
		if err := ctx.Err(); err != nil {
			return
		}
		if !emit(model.Resolving(i+1, len(extracted))) {
			return
		}
		strain, err := s.resolver.Resolve(ctx, e)
		if err != nil {
			s.logger.Warn("scan %s: resolving %q failed: %v", scanID, e.Name, err)
			continue
		}
		resolved = append(resolved, *strain)
	}
	if len(resolved) == 0 {
		emit(model.Failed(&model.ParseFailure{Detail: "no strains could be resolved"}))
		return
	}

	profile, err := s.idealProfile(ctx, liked)
	if err != nil {
		emit(model.Failed(err))
		return
	}

	excluded := make(map[string]struct{}, len(disliked))
	for _, name := range disliked {
		excluded[name] = struct{}{}
	}
	candidates := resolved[:0]
	for _, strain := range resolved {
		if _, skip := excluded[model.NormalizeName(strain.Name)]; skip {
			continue
		}
		candidates = append(candidates, strain)
	}

	results := similarity.Rank(profile, candidates)
	s.logger.Info("scan %s: complete, %d results", scanID, len(results))
	emit(model.Completed(results))
}

// idealProfile MAX-pools the terpene vectors of the liked strains that
// exist in the store. With no likes the profile is zero and ranking
// degrades to the stable input order.
func (s *Scanner) idealProfile(ctx context.Context, liked []string) (model.TerpeneVector, error) {
	var strains []model.StrainData
	for _, name := range liked {
		strain, err := s.strains.Get(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return model.TerpeneVector{}, err
		}
		strains = append(strains, *strain)
	}
	return similarity.BuildIdealProfile(strains), nil
}
