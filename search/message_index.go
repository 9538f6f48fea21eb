// Package search maintains the full-text index over chat messages used by
// the admin back-office. The index is derived state: Badger stays the source
// of truth and every mutation of a message is mirrored here.
package search

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

// Hit is one search result, rebuilt from stored fields.
type Hit struct {
	MessageID  uuid.UUID `json:"messageId"`
	ProjectID  string    `json:"projectId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
}

// Indexable is the subset of a message the index needs.
type Indexable struct {
	ID         uuid.UUID
	ProjectID  string
	SenderName string
	Content    string
}

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Index adds or replaces a message document. Called on send and on edit.
func (i *MessageIndex) Index(m Indexable) error {
	doc := bluge.NewDocument(m.ID.String()).
		AddField(bluge.NewKeywordField("project", m.ProjectID).StoreValue()).
		AddField(bluge.NewKeywordField("sender", m.SenderName).StoreValue()).
		AddField(bluge.NewTextField("content", m.Content).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Remove drops one message document from the index.
func (i *MessageIndex) Remove(id uuid.UUID) error {
	return i.writer.Delete(bluge.Identifier(id.String()))
}

// RemoveMany drops a set of documents in one batch, used by clear-chat.
func (i *MessageIndex) RemoveMany(ids []uuid.UUID) error {
	batch := bluge.NewBatch()
	for _, id := range ids {
		batch.Delete(bluge.Identifier(id.String()))
	}
	return i.writer.Batch(batch)
}

// Search runs a match query over message content, restricted to one project.
func (i *MessageIndex) Search(ctx context.Context, projectID, terms string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(projectID).SetField("project")).
		AddMust(bluge.NewMatchQuery(terms).SetField("content"))

	iter, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for {
		match, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var hit Hit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				if id, parseErr := uuid.Parse(string(value)); parseErr == nil {
					hit.MessageID = id
				}
			case "project":
				hit.ProjectID = string(value)
			case "sender":
				hit.SenderName = string(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}

	i.log.Debug("Message search executed", "project", projectID, "terms", terms, "hits", len(hits))
	return hits, nil
}
