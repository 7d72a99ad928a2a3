package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/AaronJay30/next-hire/internal/errors"
	"github.com/AaronJay30/next-hire/internal/extract"
	"github.com/AaronJay30/next-hire/internal/observability"
	"github.com/AaronJay30/next-hire/internal/types"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger uploads spill to temp files.
const maxMultipartMemory = 8 << 20

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// GET serves as a liveness ack for UI clients probing the route.
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(map[string]string{
				"status":  "ok",
				"message": "API route is working",
			}); err != nil {
				http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			}
			return
		}

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "GET, POST")
			writeErrorResponse(w, "Method not allowed", "Use POST with multipart form data", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()
		tracer := om.Tracer("nexthire.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		input, appErr := s.parseAnalyzeRequest(r)
		if appErr != nil {
			span.RecordError(appErr)
			span.SetAttributes(attribute.String("error.type", string(appErr.Type)))
			if appErr.Type == apperrors.ErrorTypeIO {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(ctx, "extraction_failure", false, om)
			}
			s.writeAppError(w, appErr)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_text_length", len(input.ResumeText)),
			attribute.String("request.course", input.Course),
			attribute.String("request.industry", input.Industry),
			attribute.String("operation", "analyze"),
		)

		analyzer, err := s.getAnalyzer()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		// Track AI operation with observability and token usage
		metrics := om.GetMetrics()
		var result types.AnalysisResult
		err = metrics.TrackAIOperationWithTokens(ctx, "analyze", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := analyzer.AnalyzeResume(ctx, input)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", false, om)
			if isParseFailure(err) {
				metrics.RecordBusinessMetric(ctx, "parse_failure", false, om)
			}
			s.writeAnalysisError(w, err)
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.Int("analysis.overall_score", result.OverallScore),
			attribute.Int("analysis.ats_score", result.ATSCompatibility.Score))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("analysis.overall_score", result.OverallScore),
			attribute.Int("analysis.keyword_score", result.KeywordOptimization.Score),
			attribute.Int("analysis.ats_score", result.ATSCompatibility.Score),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(AnalyzeResponse{Success: true, Analysis: result}); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// parseAnalyzeRequest validates the multipart form and extracts resume
// text from the uploaded PDF.
func (s *Server) parseAnalyzeRequest(r *http.Request) (types.AnalyzeResumeInput, *apperrors.AppError) {
	var input types.AnalyzeResumeInput

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return input, apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest,
				"Uploaded file is too large", err).WithContext("limit_bytes", maxBytesErr.Limit)
		}
		return input, apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest,
			"Request must be multipart form data", err)
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		return input, apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest,
			"Missing file, course, or industry", err)
	}
	defer func() { _ = file.Close() }()

	course := strings.TrimSpace(r.FormValue("course"))
	industry := strings.TrimSpace(r.FormValue("industry"))
	if course == "" || industry == "" {
		return input, apperrors.NewValidationError(apperrors.ErrCodeInvalidRequest,
			"Missing file, course, or industry", nil)
	}

	// Reject declared non-PDF uploads. An absent content type is allowed
	// since the extractor validates the bytes anyway.
	if mime := header.Header.Get("Content-Type"); mime != "" && mime != "application/pdf" {
		return input, apperrors.NewValidationError(apperrors.ErrCodeInvalidFormat,
			"Invalid file type, please upload a PDF", nil).WithContext("content_type", mime)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return input, apperrors.NewIOError(apperrors.ErrCodeFileNotReadable,
			"Failed to read uploaded file", err)
	}

	text, err := s.Extractor(data)
	if err != nil {
		s.Logger.LogError(err, "Resume text extraction failed",
			"file_name", header.Filename,
			"file_size", len(data))
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return input, appErr
		}
		return input, apperrors.NewIOError(apperrors.ErrCodeExtractionFailed,
			"Failed to extract meaningful text from the resume file", err)
	}

	if err := extract.ValidateExtractedText(text); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return input, appErr
		}
		return input, apperrors.NewIOError(apperrors.ErrCodeExtractionFailed,
			"Failed to extract meaningful text from the resume file", err)
	}

	input.ResumeText = text
	input.Course = course
	input.Industry = industry
	return input, nil
}

// writeAppError maps an application error to an HTTP status and writes
// the standard error body.
func (s *Server) writeAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	writeErrorResponse(w, appErr.Message, "", statusForAppError(appErr))
}

// writeAnalysisError maps analysis pipeline failures to HTTP statuses.
// Upstream AI failures surface as 502 so callers can tell them apart
// from bugs in this service. Upstream bodies, credential state, and
// other diagnostics stay in server logs; clients get a generic message.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	s.Logger.LogError(err, "Resume analysis failed")

	status := http.StatusInternalServerError
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = statusForAppError(appErr)
	}
	writeErrorResponse(w, "Failed to analyze resume", "", status)
}

// statusForAppError picks the HTTP status for an application error
func statusForAppError(appErr *apperrors.AppError) int {
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeIO:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// isParseFailure reports whether the error is an unrecoverable AI reply
// parse failure.
func isParseFailure(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeUnparsableResponse
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
