package journalhttp

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tradenote/internal/analytics"
	"tradenote/internal/importer"
	"tradenote/internal/store"
	"tradenote/internal/store/history"

	"github.com/gin-gonic/gin"
)

// Router 暴露交易日志相关接口：上传导入、交易查询、看板分析。
type Router struct {
	importer *importer.Service
	trades   store.TradeStore
	history  *history.Store

	maxUploadBytes int64
	maxFiles       int
}

// NewRouter 构造 journal HTTP router。
func NewRouter(imp *importer.Service, trades store.TradeStore, hist *history.Store, maxUploadBytes int64, maxFiles int) *Router {
	return &Router{
		importer:       imp,
		trades:         trades,
		history:        hist,
		maxUploadBytes: maxUploadBytes,
		maxFiles:       maxFiles,
	}
}

// Register 将 /api/journal 路由挂载到给定分组下。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.POST("/imports", r.handleImport)
	group.GET("/imports", r.handleImportHistory)
	group.DELETE("/imports/:filename", r.handleDeleteImport)
	group.GET("/trades", r.handleListTrades)
	group.PATCH("/trades/:id/strategy", r.handleUpdateStrategy)
	group.GET("/analytics/summary", r.handleSummary)
	group.GET("/analytics/equity", r.handleEquity)
	group.GET("/analytics/breakdown", r.handleBreakdown)
}

// userID 从请求头或查询参数取调用方身份。认证在上游网关完成，
// 这里只透传，不校验。
func userID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader("X-User-ID")); id != "" {
		return id
	}
	return strings.TrimSpace(c.Query("user_id"))
}

type importFileResult struct {
	Filename string            `json:"filename"`
	OK       bool              `json:"ok"`
	Error    string            `json:"error,omitempty"`
	Outcome  *importer.Outcome `json:"outcome,omitempty"`
}

func (r *Router) handleImport(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid multipart form: %v", err)})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}
	if len(files) > r.maxFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("too many files (max %d)", r.maxFiles)})
		return
	}

	results := make([]importFileResult, 0, len(files))
	uploads := make([]importer.Upload, 0, len(files))
	names := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > r.maxUploadBytes {
			results = append(results, importFileResult{
				Filename: fh.Filename,
				Error:    fmt.Sprintf("file exceeds %d bytes", r.maxUploadBytes),
			})
			continue
		}
		f, err := fh.Open()
		if err != nil {
			results = append(results, importFileResult{Filename: fh.Filename, Error: err.Error()})
			continue
		}
		defer f.Close()
		uploads = append(uploads, importer.Upload{Filename: fh.Filename, Reader: f})
		names = append(names, fh.Filename)
	}

	outcomes, errs := r.importer.ImportBatch(c.Request.Context(), uid, uploads)
	for i := range uploads {
		res := importFileResult{Filename: names[i]}
		if errs[i] != nil {
			res.Error = errs[i].Error()
		} else {
			res.OK = true
			outcome := outcomes[i]
			res.Outcome = &outcome
		}
		results = append(results, res)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (r *Router) handleImportHistory(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if r.history == nil {
		c.JSON(http.StatusOK, gin.H{"imports": []history.Record{}})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	recs, err := r.history.ListByUser(c.Request.Context(), uid, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"imports": recs})
}

func (r *Router) handleDeleteImport(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	filename := c.Param("filename")
	deleted, err := r.trades.DeleteByFilename(c.Request.Context(), uid, filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (r *Router) handleListTrades(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := store.TradeFilter{
		UserID:   uid,
		Symbol:   c.Query("symbol"),
		Strategy: c.Query("strategy"),
		Filename: c.Query("filename"),
		Limit:    limit,
		Offset:   offset,
	}
	trades, err := r.trades.ListTrades(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := r.trades.CountTrades(c.Request.Context(), store.TradeFilter{
		UserID: uid, Symbol: filter.Symbol, Strategy: filter.Strategy, Filename: filter.Filename,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades, "total": total})
}

func (r *Router) handleUpdateStrategy(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	var req struct {
		Strategy string `json:"strategy" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := r.trades.UpdateStrategy(c.Request.Context(), uid, c.Param("id"), req.Strategy)
	if errors.Is(err, store.ErrTradeNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "trade not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// requireUser 校验调用方身份，缺失时直接写 400。分析接口在内存中聚合
// 全量交易，日志型数据量级在千行以内，足够。
func (r *Router) requireUser(c *gin.Context) (string, bool) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return "", false
	}
	return uid, true
}

func (r *Router) handleSummary(c *gin.Context) {
	uid, ok := r.requireUser(c)
	if !ok {
		return
	}
	trades, err := r.trades.ListTrades(c.Request.Context(), store.TradeFilter{UserID: uid, Symbol: c.Query("symbol")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analytics.Summarize(trades))
}

func (r *Router) handleEquity(c *gin.Context) {
	uid, ok := r.requireUser(c)
	if !ok {
		return
	}
	trades, err := r.trades.ListTrades(c.Request.Context(), store.TradeFilter{UserID: uid, Symbol: c.Query("symbol")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	curve := analytics.EquityCurve(trades)
	if curve == nil {
		curve = []analytics.EquityPoint{}
	}
	c.JSON(http.StatusOK, gin.H{"equity": curve})
}

func (r *Router) handleBreakdown(c *gin.Context) {
	uid, ok := r.requireUser(c)
	if !ok {
		return
	}
	trades, err := r.trades.ListTrades(c.Request.Context(), store.TradeFilter{UserID: uid})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var rows []analytics.BreakdownRow
	switch by := c.DefaultQuery("by", "strategy"); by {
	case "strategy":
		rows = analytics.ByStrategy(trades)
	case "symbol":
		rows = analytics.BySymbol(trades)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown breakdown dimension: %s", by)})
		return
	}
	if rows == nil {
		rows = []analytics.BreakdownRow{}
	}
	c.JSON(http.StatusOK, gin.H{"breakdown": rows})
}
