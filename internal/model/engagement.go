package model

import "time"

// Comment is an append-only remark on a document.
type Comment struct {
	ID         string    `json:"id" bson:"_id"`
	DocumentID string    `json:"document_id" bson:"document_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	AuthorName string    `json:"author_name" bson:"author_name"`
	Text       string    `json:"text" bson:"text"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Vote, Favorite and Download each hold at most one row per (document, user).
type Vote struct {
	DocumentID string    `json:"document_id" bson:"document_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

type Favorite struct {
	DocumentID string    `json:"document_id" bson:"document_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

type Download struct {
	DocumentID   string    `json:"document_id" bson:"document_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	DownloadedAt time.Time `json:"downloaded_at" bson:"downloaded_at"`
}

// VoteStatus describes the vote state of one document for the caller.
type VoteStatus struct {
	DocumentID string `json:"document_id"`
	VoteCount  int    `json:"vote_count"`
	UserVoted  bool   `json:"user_voted"`
}

// FavoriteStatus describes the favorite state of one document for the caller.
type FavoriteStatus struct {
	DocumentID string `json:"document_id"`
	Favorited  bool   `json:"favorited"`
}
