package middlewares

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const MAX_SCANNED_BODY = 1 << 20

type ThreatRule struct {
	Name    string
	Pattern *regexp.Regexp
}

var ThreatRules = []ThreatRule{
	{
		Name: "sql_injection",
		Pattern: regexp.MustCompile(
			`(?i)(\bunion\b[\s\S]{0,100}\bselect\b|\bor\b\s+['"]?\d+['"]?\s*=\s*['"]?\d+|;\s*(drop|delete|truncate|alter)\s+(table|database)\b|'\s*;?\s*--)`,
		),
	},
	{
		Name:    "xss",
		Pattern: regexp.MustCompile(`(?i)(<\s*script\b|<\s*iframe\b|javascript\s*:|\bon(error|load|click|mouseover|focus)\s*=)`),
	},
	{
		Name:    "path_traversal",
		Pattern: regexp.MustCompile(`(?i)(\.\./|\.\.\\|%2e%2e(%2f|%5c))`),
	},
	{
		Name: "nosql_injection",
		Pattern: regexp.MustCompile(
			`(?i)(["']\$(where|ne|eq|gt|gte|lt|lte|in|nin|regex|expr|or|and)["']\s*:|\[\$(where|ne|eq|gt|gte|lt|lte|in|nin|regex|expr)\])`,
		),
	},
	{
		Name:    "command_injection",
		Pattern: regexp.MustCompile(`(?i)(;\s*(rm|wget|curl|bash|sh|nc|chmod)\s|\|\s*(bash|sh)\b|\$\(\s*(rm|cat|wget|curl|bash|sh|id|whoami)\b)`),
	},
}

// DetectThreat returns the first rule matching any of the inputs
func DetectThreat(inputs ...string) (string, bool) {
	for _, input := range inputs {
		if input == "" {
			continue
		}
		for _, rule := range ThreatRules {
			if rule.Pattern.MatchString(input) {
				return rule.Name, true
			}
		}
	}
	return "", false
}

func unescape(value string) string {
	if unescaped, err := url.QueryUnescape(value); err == nil {
		return unescaped
	}
	return value
}

// readScannedBody reads at most MAX_SCANNED_BODY bytes and puts them back in
// front of the rest of the body
func readScannedBody(req *http.Request) string {
	if req.Body == nil || !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		return ""
	}
	scanned, err := io.ReadAll(io.LimitReader(req.Body, MAX_SCANNED_BODY))
	if err != nil {
		return ""
	}
	req.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(scanned), req.Body), req.Body}
	return string(scanned)
}

func ThreatsMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		req := ctx.Request
		rule, found := DetectThreat(
			req.URL.Path,
			req.URL.RawQuery,
			unescape(req.URL.RawQuery),
			readScannedBody(req),
		)
		if found {
			logger.Get().Warn(
				"threat detected",
				zap.String("rule", rule),
				zap.String("ip", ctx.ClientIP()),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
			)
			ctx.AbortWithStatusJSON(http.StatusForbidden, &res.Response{
				Success: false,
				Message: "Forbidden",
			})
			return
		}
		ctx.Next()
	}
}
