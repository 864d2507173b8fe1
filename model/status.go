package model

import "fmt"

// ParseStage identifies a step in the scan pipeline. Stages only move
// forward; StageComplete and StageError are terminal.
type ParseStage int

const (
	StageFetching ParseStage = iota
	StageFetchComplete
	StageProductsFound
	StageExtractingStrains
	StageResolvingTerpenes
	StageComplete
	StageError
)

// String returns a human-readable stage name.
func (s ParseStage) String() string {
	switch s {
	case StageFetching:
		return "fetching"
	case StageFetchComplete:
		return "fetch complete"
	case StageProductsFound:
		return "products found"
	case StageExtractingStrains:
		return "extracting strains"
	case StageResolvingTerpenes:
		return "resolving terpenes"
	case StageComplete:
		return "complete"
	case StageError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Terminal reports whether no further status values can follow.
func (s ParseStage) Terminal() bool {
	return s == StageComplete || s == StageError
}

// ParseStatus is one value in the monotonic progress sequence a scan emits.
// Current/Total describe per-item progress for the extracting and resolving
// stages; Results is populated only on StageComplete and Message only on
// StageError.
type ParseStatus struct {
	Stage   ParseStage
	Current int
	Total   int
	Results []SimilarityResult
	Message string
}

// Extracting builds a StageExtractingStrains status.
func Extracting(current, total int) ParseStatus {
	return ParseStatus{Stage: StageExtractingStrains, Current: current, Total: total}
}

// Resolving builds a StageResolvingTerpenes status.
func Resolving(current, total int) ParseStatus {
	return ParseStatus{Stage: StageResolvingTerpenes, Current: current, Total: total}
}

// Completed builds the terminal success status.
func Completed(results []SimilarityResult) ParseStatus {
	return ParseStatus{Stage: StageComplete, Results: results}
}

// Failed builds the terminal error status carrying a user-facing message.
func Failed(err error) ParseStatus {
	return ParseStatus{Stage: StageError, Message: UserMessage(err)}
}
