package collab

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tracewire/svcgraph/internal/discover"
	"github.com/tracewire/svcgraph/internal/types"
)

// FileSystemCrawler is a local Crawler that walks a repository the same
// way internal/discover does for extraction, so a CLI run doesn't need a
// separate production crawler wired in to exercise the chunking/embedding
// assets end to end.
type FileSystemCrawler struct{}

func (FileSystemCrawler) Crawl(ctx context.Context, source string) ([]CrawledFile, error) {
	files, err := discover.Discover(ctx, source, nil)
	if err != nil {
		return nil, fmt.Errorf("crawl %s: %w", source, err)
	}
	out := make([]CrawledFile, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f.Path)
		if err != nil {
			continue
		}
		out = append(out, CrawledFile{
			Content:   string(content),
			SourceURI: f.RelPath,
			Language:  string(f.Language),
			Metadata:  map[string]string{"language": string(f.Language)},
		})
	}
	return out, nil
}

// LineChunker splits file content into fixed-size line windows — a
// coarse, language-agnostic stand-in for the AST-aware chunker spec.md
// leaves as an external collaborator.
type LineChunker struct {
	LinesPerChunk int
}

// NewLineChunker constructs a LineChunker with the given window size,
// defaulting to 40 lines if linesPerChunk <= 0.
func NewLineChunker(linesPerChunk int) *LineChunker {
	if linesPerChunk <= 0 {
		linesPerChunk = 40
	}
	return &LineChunker{LinesPerChunk: linesPerChunk}
}

func (c *LineChunker) Chunk(ctx context.Context, content, sourceURI, language string) ([]types.RawChunk, error) {
	lines := strings.Split(content, "\n")
	var chunks []types.RawChunk
	byteOffset := 0
	for start := 0; start < len(lines); start += c.LinesPerChunk {
		end := start + c.LinesPerChunk
		if end > len(lines) {
			end = len(lines)
		}
		text := strings.Join(lines[start:end], "\n")
		startByte := byteOffset
		endByte := byteOffset + len(text)
		byteOffset = endByte + 1 // account for the joining newline consumed between windows

		chunks = append(chunks, types.RawChunk{
			ID:        types.NewChunkID(sourceURI, startByte, endByte),
			Content:   text,
			SourceURI: sourceURI,
			Language:  language,
			StartLine: start + 1,
			EndLine:   end,
		})
	}
	return chunks, nil
}

// PassthroughScrubber performs no redaction — a local stand-in for a real
// PHI/PII scrubber, suitable only for non-sensitive local test fixtures.
type PassthroughScrubber struct{}

func (PassthroughScrubber) Scrub(ctx context.Context, chunk types.RawChunk) (types.CleanChunk, error) {
	return types.CleanChunk{RawChunk: chunk}, nil
}

func (s PassthroughScrubber) ScrubBatch(ctx context.Context, chunks []types.RawChunk) []ScrubResult {
	results := make([]ScrubResult, len(chunks))
	for i, c := range chunks {
		clean, err := s.Scrub(ctx, c)
		results[i] = ScrubResult{Chunk: clean, Err: err}
	}
	return results
}
