// internal/worklist/indexer.go
package worklist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-workflow/internal/common/database"
	"loan-workflow/internal/common/logger"
	"loan-workflow/internal/models"
)

// Indexer mirrors application snapshots into Elasticsearch so role
// worklists can be served by search instead of table scans. It runs as a
// post-commit hook: indexing failures are logged and never fail the
// transition that triggered them.
type Indexer struct {
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

// NewIndexer creates a worklist indexer writing to the given index.
func NewIndexer(es *database.ElasticsearchClient, index string, log logger.Logger) *Indexer {
	return &Indexer{es: es, index: index, logger: log}
}

// worklistDoc is the flattened view of an application the worklist needs.
type worklistDoc struct {
	ID           string    `json:"id"`
	PIID         string    `json:"piid,omitempty"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customerName"`
	LoanAmount   int64     `json:"loanAmount"`
	Tenor        int       `json:"tenor"`
	SalesID      string    `json:"salesId,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OnCommitted indexes the updated application. Safe to call concurrently.
func (i *Indexer) OnCommitted(ctx context.Context, app *models.Application) {
	doc := worklistDoc{
		ID:           app.ID,
		PIID:         app.PIID,
		Status:       string(app.Status),
		CustomerName: app.CustomerName,
		LoanAmount:   app.LoanAmount,
		Tenor:        app.Tenor,
		SalesID:      app.SalesID,
		UpdatedAt:    app.UpdatedAt,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		i.logger.WithError(err).Error("failed to encode worklist document", map[string]interface{}{
			"application_id": app.ID,
		})
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := i.es.Client.Index(
		i.index,
		bytes.NewReader(body),
		i.es.Client.Index.WithDocumentID(app.ID),
		i.es.Client.Index.WithContext(ctx),
	)
	if err != nil {
		i.logger.WithError(err).Error("failed to index worklist document", map[string]interface{}{
			"application_id": app.ID,
			"index":          i.index,
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		i.logger.Error("worklist index request rejected", map[string]interface{}{
			"application_id": app.ID,
			"index":          i.index,
			"status":         res.Status(),
		})
		return
	}

	i.logger.Debug("worklist document indexed", map[string]interface{}{
		"application_id": app.ID,
		"status":         string(app.Status),
	})
}

// OnRemoved deletes the application's worklist document after a delete.
func (i *Indexer) OnRemoved(ctx context.Context, appID string) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := i.es.Client.Delete(
		i.index,
		appID,
		i.es.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		i.logger.WithError(err).Error("failed to delete worklist document", map[string]interface{}{
			"application_id": appID,
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		i.logger.Error("worklist delete request rejected", map[string]interface{}{
			"application_id": appID,
			"status":         fmt.Sprintf("%d", res.StatusCode),
		})
	}
}
