package utils

const ShortDashDateLayout = "2006-01-02"

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Cache keys shared by the API and the worker.
const (
	GoldTradeCacheKey = "aug-calc:gold:trade"
)
