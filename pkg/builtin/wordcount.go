package builtin

import (
	"strings"
	"sync/atomic"

	"github.com/platinummonkey/diplomacy/pkg/plugin"
	"github.com/platinummonkey/diplomacy/pkg/result"
)

const (
	WordCountID     = "WordCountAmbassador"
	WordCountAction = "WordCount"
)

// WordCountDescriptor describes WordCountAmbassador.
var WordCountDescriptor = plugin.Descriptor{
	PluginID:       WordCountID,
	Provider:       ProviderID,
	Name:           "Word Count",
	Version:        "1.0.0",
	Description:    "Counts the words in request data",
	Capability:     plugin.CapabilityAmbassador,
	Implementation: "wordcount",
}

// WordCountAmbassador counts whitespace-separated words.
type WordCountAmbassador struct {
	last      atomic.Int64
	processed atomic.Int64
}

var _ plugin.Ambassador = (*WordCountAmbassador)(nil)

// NewWordCountAmbassador creates a WordCountAmbassador.
func NewWordCountAmbassador() *WordCountAmbassador {
	return &WordCountAmbassador{}
}

func (w *WordCountAmbassador) ID() string { return WordCountID }

func (w *WordCountAmbassador) SupportedActions() []string {
	return []string{WordCountAction}
}

// Process counts the words in data. Blank data is InvalidArgument.
func (w *WordCountAmbassador) Process(data string) result.Result {
	if strings.TrimSpace(data) == "" {
		return result.New(result.InvalidArgument)
	}
	w.last.Store(int64(len(strings.Fields(data))))
	w.processed.Add(1)
	return result.OK()
}

// LastCount returns the word count of the last processed request.
func (w *WordCountAmbassador) LastCount() int {
	return int(w.last.Load())
}

// Processed returns how many requests were processed.
func (w *WordCountAmbassador) Processed() int {
	return int(w.processed.Load())
}

func (w *WordCountAmbassador) Start() result.Result { return result.OK() }

func (w *WordCountAmbassador) Stop() result.Result { return result.OK() }
