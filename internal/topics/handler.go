package topics

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"topicscope/internal/logger"
	"topicscope/internal/store"
	"topicscope/pkg/errors"
)

// Store is what the topics API needs from the topic-state store.
type Store interface {
	Snapshot() map[string]store.TopicRecord
	Delete(key string) bool
	Len() int
}

// Handler exposes the management surface of the store: list everything,
// and purge a topic. Purging is the only way a key ever leaves the store;
// there is no time-based eviction.
type Handler struct {
	store  Store
	logger logger.Logger
}

func NewHandler(st Store, log logger.Logger) *Handler {
	return &Handler{
		store:  st,
		logger: log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		topics := v1.Group("/topics")
		{
			topics.GET("", h.ListTopics)
			topics.DELETE("/*key", h.DeleteTopic)
		}
	}
}

func (h *Handler) ListTopics(c *gin.Context) {
	snapshot := h.store.Snapshot()

	records := make([]store.TopicRecord, 0, len(snapshot))
	for _, rec := range snapshot {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})

	c.JSON(http.StatusOK, gin.H{
		"count":  len(records),
		"topics": records,
	})
}

// DeleteTopic purges one key. Topic keys may contain slashes, hence the
// wildcard route parameter.
func (h *Handler) DeleteTopic(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		err := errors.ErrValidation.WithMessage("topic key is required")
		c.JSON(errors.ToHTTPStatus(err), errors.ToErrorResponse(err))
		return
	}

	if !h.store.Delete(key) {
		err := errors.ErrNotFound.WithMessage("topic not found")
		c.JSON(errors.ToHTTPStatus(err), errors.ToErrorResponse(err))
		return
	}

	h.logger.InfowCtx(c.Request.Context(), "Topic purged",
		"topic", key,
		"remaining", h.store.Len(),
	)
	c.JSON(http.StatusOK, gin.H{"removed": key})
}
