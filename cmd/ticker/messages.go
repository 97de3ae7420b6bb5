package main

import "github.com/rxtech-lab/argo-ticker/internal/types"

// SnapshotMsg carries a complete snapshot set from the feed.
type SnapshotMsg struct {
	Set types.SnapshotSet
}

// FeedErrorMsg carries a feed error, recoverable or not.
type FeedErrorMsg struct {
	Err error
}

// FeedClosedMsg signals that the stream ended on its own.
type FeedClosedMsg struct{}
