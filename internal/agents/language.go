package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/madhu-yavar/transaction-agent/constants"
	"github.com/madhu-yavar/transaction-agent/internal/pipeline"
	"github.com/madhu-yavar/transaction-agent/internal/state"
)

const detectLanguagePrompt = `Identify the language of the following table
content. Answer with the English name of the language only, one word.

%s`

const translateHeaderPrompt = `Translate the following table column name to
English. Return only the translated name, nothing else.

%s`

// LanguageCheck samples the current frame's headers and top rows, asks the
// text completer which language they are in, and translates non-English
// headers in place. PDFs skip this step; it runs on the tabular fast path.
func LanguageCheck(deps Deps) pipeline.Step {
	return func(ctx context.Context, st *state.State) *state.State {
		if st.Failed() || !constants.IsTabularExt(constants.NormalizeExt(st.FileType)) {
			return st
		}
		if st.Frame.Empty() {
			return st.Fail("language check failed: no data frame loaded")
		}

		sample := strings.Join(st.Frame.Header, " | ")
		for _, r := range st.Frame.Head(3).Rows {
			sample += "\n" + strings.Join(r, " | ")
		}

		lang, err := deps.Text.Complete(ctx, fmt.Sprintf(detectLanguagePrompt, sample))
		if err != nil {
			return st.Fail(fmt.Sprintf("language check failed: %v", err))
		}
		lang = strings.TrimSpace(lang)
		if strings.EqualFold(lang, "english") || lang == "" {
			return st
		}

		deps.logger().Info("agents.language.translating",
			"run_id", st.RunID, "language", lang)

		for i, h := range st.Frame.Header {
			if strings.TrimSpace(h) == "" {
				continue
			}
			translated, err := deps.Text.Complete(ctx, fmt.Sprintf(translateHeaderPrompt, h))
			if err != nil {
				return st.Fail(fmt.Sprintf("header translation failed: %v", err))
			}
			if translated = strings.TrimSpace(translated); translated != "" {
				st.Frame.Header[i] = translated
			}
		}
		st.Translated = true
		st.DisplayPreview = st.Frame.Markdown(constants.PreviewRows)
		return st
	}
}
