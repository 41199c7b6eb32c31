package model

import "time"

// Document is an uploaded course file plus its descriptive metadata.
// JSON names follow the fields the web frontend reads.
type Document struct {
	ID            string    `json:"id" bson:"_id"`
	Filename      string    `json:"filename" bson:"filename"`
	StoragePath   string    `json:"saved_path" bson:"saved_path"`
	ContentType   string    `json:"content_type" bson:"content_type"`
	Size          int64     `json:"size_bytes" bson:"size_bytes"`
	UploaderID    string    `json:"uploader_id,omitempty" bson:"uploader_id,omitempty"`
	University    string    `json:"university" bson:"university"`
	Faculty       string    `json:"faculty" bson:"faculty"`
	Course        string    `json:"course" bson:"course"`
	Title         string    `json:"documentTitle" bson:"documentTitle"`
	Description   string    `json:"description" bson:"description"`
	DocumentType  string    `json:"documentType" bson:"documentType"`
	Tags          string    `json:"tags" bson:"tags"`
	UploadedAt    time.Time `json:"uploaded_at" bson:"uploaded_at"`
	DownloadCount int64     `json:"download_count" bson:"download_count"`
	Summary       *string   `json:"summary,omitempty" bson:"summary,omitempty"`
	Keywords      []string  `json:"keywords,omitempty" bson:"keywords,omitempty"`
}

// DocumentFilter is an exact-match conjunction; empty fields are ignored.
type DocumentFilter struct {
	University string
	Faculty    string
	Course     string
}

// IsEmpty reports whether no field constrains the listing.
func (f DocumentFilter) IsEmpty() bool {
	return f.University == "" && f.Faculty == "" && f.Course == ""
}

// RankedDocument is a Document annotated with its engagement counts.
type RankedDocument struct {
	Document
	VoteCount     int `json:"vote_count"`
	CommentCount  int `json:"comment_count"`
	PriorityScore int `json:"priority_score"`
}
