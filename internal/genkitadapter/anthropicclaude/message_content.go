package anthropicclaude

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// supportedImageTypes are the image media types Anthropic accepts inline.
var supportedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

const pdfContentType = "application/pdf"

// toContentBlockParam converts a part into an Anthropic content block param.
// The first populated field wins: reasoning, redacted thinking, text, media,
// tool request, tool response.
func toContentBlockParam(part *types.Part) (anthropic.ContentBlockParamUnion, error) {
	if part == nil {
		return anthropic.ContentBlockParamUnion{}, &UnsupportedPartShapeError{Part: part}
	}

	if part.Reasoning != "" {
		signature := thinkingSignature(part)
		if signature == "" {
			return anthropic.ContentBlockParamUnion{}, &MissingSignatureError{Reasoning: part.Reasoning}
		}
		return anthropic.NewThinkingBlock(signature, part.Reasoning), nil
	}

	if part.Custom != nil && part.Custom.RedactedThinking != nil {
		return anthropic.NewRedactedThinkingBlock(part.Custom.RedactedThinking.Data), nil
	}

	if part.Text != "" {
		return anthropic.NewTextBlock(part.Text), nil
	}

	if part.Media != nil {
		return fromMedia(part.Media)
	}

	if req := part.ToolRequest; req != nil {
		if req.Ref == "" {
			return anthropic.ContentBlockParamUnion{}, &MissingToolRefError{Field: "toolRequest", Name: req.Name}
		}
		input := req.Input
		if len(input) == 0 {
			input = json.RawMessage("{}")
		}
		return anthropic.NewToolUseBlock(req.Ref, input, req.Name), nil
	}

	if resp := part.ToolResponse; resp != nil {
		if resp.Ref == "" {
			return anthropic.ContentBlockParamUnion{}, &MissingToolRefError{Field: "toolResponse", Name: resp.Name}
		}
		content, err := toolResponseContent(resp.Output)
		if err != nil {
			return anthropic.ContentBlockParamUnion{}, fmt.Errorf("encode output of tool %q: %w", resp.Name, err)
		}
		return anthropic.NewToolResultBlock(resp.Ref, content, false), nil
	}

	return anthropic.ContentBlockParamUnion{}, &UnsupportedPartShapeError{Part: part}
}

// thinkingSignature returns the signature stored under the shared custom key.
func thinkingSignature(part *types.Part) string {
	if part.Custom == nil || part.Custom.ThinkingSignature == nil {
		return ""
	}
	return part.Custom.ThinkingSignature.Signature
}

// toolResponseContent passes strings through and JSON-encodes everything else.
func toolResponseContent(output any) (string, error) {
	switch v := output.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.RawMessage:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// fromMedia converts media into a document block for PDFs and an image block otherwise.
func fromMedia(media *types.Media) (anthropic.ContentBlockParamUnion, error) {
	inline, isDataURL, err := parseDataURL(media.URL)
	if err != nil {
		return anthropic.ContentBlockParamUnion{}, err
	}

	contentType := media.ContentType
	if contentType == "" && isDataURL {
		contentType = inline.mediaType
	}

	if contentType == pdfContentType {
		if isDataURL {
			return anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: inline.data}), nil
		}
		if isRemoteURL(media.URL) {
			return anthropic.NewDocumentBlock(anthropic.URLPDFSourceParam{URL: media.URL}), nil
		}
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("invalid document URL format: must be http(s):// or data: URI")
	}

	if isDataURL {
		mediaType, err := imageMediaType(inline, contentType)
		if err != nil {
			return anthropic.ContentBlockParamUnion{}, err
		}
		return anthropic.NewImageBlockBase64(mediaType, inline.data), nil
	}
	if isRemoteURL(media.URL) {
		return anthropic.NewImageBlock(anthropic.URLImageSourceParam{URL: media.URL}), nil
	}
	return anthropic.ContentBlockParamUnion{}, fmt.Errorf("invalid image URL format: must be http(s):// or data: URI")
}

// dataURL is a parsed data:<mediatype>;base64,<data> URI.
type dataURL struct {
	mediaType string
	data      string
	decoded   []byte
}

// parseDataURL parses url when it is a data URI. ok is false for other URLs.
func parseDataURL(url string) (d dataURL, ok bool, err error) {
	after, found := strings.CutPrefix(url, "data:")
	if !found {
		return dataURL{}, false, nil
	}

	// Parse data URL format: data:mime/type;base64,<data>
	header, encoded, found := strings.Cut(after, ",")
	if !found {
		return dataURL{}, true, fmt.Errorf("invalid data URL format, expected data:mime/type;base64,data")
	}
	mediaType, params, _ := strings.Cut(header, ";")
	if !strings.Contains(params, "base64") {
		return dataURL{}, true, fmt.Errorf("data URL must be base64 encoded")
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return dataURL{}, true, fmt.Errorf("invalid base64 media data: %w", err)
	}
	return dataURL{mediaType: mediaType, data: encoded, decoded: decoded}, true, nil
}

// imageMediaType picks the declared media type, sniffing the content when
// none is declared, and checks it against the types Anthropic accepts.
func imageMediaType(d dataURL, declared string) (string, error) {
	mediaType := declared
	if mediaType == "" {
		mediaType = detectMIMEType(d.decoded, d.mediaType, "image/jpeg")
	}
	if !slices.Contains(supportedImageTypes, mediaType) {
		return "", fmt.Errorf("unsupported image media type %q (supported: %s)", mediaType, strings.Join(supportedImageTypes, ", "))
	}
	return mediaType, nil
}

func isRemoteURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// detectMIMEType determines MIME type using a prioritized fallback chain:
// content sniffing (most reliable) → declared type → final fallback.
func detectMIMEType(data []byte, declaredType, fallbackType string) string {
	if detectedMime := http.DetectContentType(data); detectedMime != "application/octet-stream" {
		// DetectContentType appends parameters for text types.
		if mediaType, _, err := mime.ParseMediaType(detectedMime); err == nil {
			return mediaType
		}
		return detectedMime
	}

	if declaredType != "" && declaredType != "application/octet-stream" {
		return declaredType
	}

	return fallbackType
}
