package budget

import (
    "math"
    "strings"
)

// EstimateTokensFromChars converts a character count into an estimated token
// count using a conservative heuristic (~4 chars per token in English). The
// result is always at least 1 when chars > 0.
func EstimateTokensFromChars(charCount int) int {
    if charCount <= 0 {
        return 0
    }
    // Keep conservative to avoid overruns. Use ceiling for safety.
    return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the estimated token count of a string.
func EstimateTokens(s string) int {
    return EstimateTokensFromChars(len(s))
}

// EstimatePromptTokens estimates the total tokens for a prompt composed of
// a system message, a user message, and zero or more extra blocks.
func EstimatePromptTokens(system string, user string, extra []string) int {
    total := 0
    total += EstimateTokens(system)
    total += EstimateTokens(user)
    for _, ex := range extra {
        total += EstimateTokens(ex)
    }
    return total
}

// ModelContextTokens returns an estimated maximum context window for a given
// model name. Unknown models fall back to a sensible default.
func ModelContextTokens(modelName string) int {
    name := strings.ToLower(strings.TrimSpace(modelName))
    if name == "" {
        return 8192
    }
    if v, ok := knownModelMax[name]; ok {
        return v
    }
    // Groq style ids carry the window as a trailing number, e.g. llama3-8b-8192.
    if i := strings.LastIndexByte(name, '-'); i >= 0 {
        if n := parsePositive(name[i+1:]); n >= 2048 {
            return n
        }
    }
    if strings.HasSuffix(name, "128k") {
        return 128_000
    }
    if strings.HasSuffix(name, "32k") {
        return 32_768
    }
    if strings.Contains(name, "-mini") {
        return 128_000
    }
    return 8192
}

// RemainingContext computes the remaining input token budget given a model,
// a desired reservation for output generation, and the estimated prompt tokens.
// The result is never negative.
func RemainingContext(modelName string, reservedForOutput int, promptTokens int) int {
    maxCtx := ModelContextTokens(modelName)
    if reservedForOutput < 0 {
        reservedForOutput = 0
    }
    remaining := maxCtx - reservedForOutput - promptTokens
    if remaining < 0 {
        return 0
    }
    return remaining
}

// HeadroomTokens returns a conservative safety headroom to subtract from the
// model context so that prompt sizing avoids overruns due to tokenizer and
// message framing overheads. We use the larger of 5% of the model context or
// a fixed floor of 512 tokens.
func HeadroomTokens(modelName string) int {
    max := ModelContextTokens(modelName)
    dyn := int(math.Ceil(float64(max) * 0.05))
    if dyn < 512 {
        return 512
    }
    return dyn
}

// ClampContextBudget lowers want so that the context, the fixed prompt
// framing, the reserved output and the model headroom fit the model window.
func ClampContextBudget(modelName string, want int, reservedForOutput int, framingTokens int) int {
    avail := RemainingContext(modelName, reservedForOutput+HeadroomTokens(modelName), framingTokens)
    if want > avail {
        return avail
    }
    return want
}

// knownModelMax contains rough context sizes for common model identifiers.
// These are best-effort and do not need to be exhaustive.
var knownModelMax = map[string]int{
    "gpt-4o":        128_000,
    "gpt-4o-mini":   128_000,
    "gpt-4-turbo":   128_000,
    "gpt-3.5-turbo": 16_384,

    "llama3-8b-8192":          8_192,
    "llama3-70b-8192":         8_192,
    "llama-3.1-8b-instant":    128_000,
    "llama-3.3-70b-versatile": 128_000,
    "mixtral-8x7b-32768":      32_768,
    "gemma2-9b-it":            8_192,
}

func parsePositive(s string) int {
    if s == "" || len(s) > 7 {
        return 0
    }
    n := 0
    for _, r := range s {
        if r < '0' || r > '9' {
            return 0
        }
        n = n*10 + int(r-'0')
    }
    return n
}
