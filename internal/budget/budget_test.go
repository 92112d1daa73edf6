package budget

import "testing"

func TestEstimateTokensFromChars(t *testing.T) {
    cases := []struct{
        in int
        want int
    }{
        {-3, 0},
        {0, 0},
        {1, 1},           // ceil(1/4)=1
        {3, 1},           // ceil(3/4)=1
        {4, 1},           // ceil(4/4)=1
        {5, 2},           // ceil(5/4)=2
        {400, 100},
    }
    for _, c := range cases {
        got := EstimateTokensFromChars(c.in)
        if got != c.want {
            t.Fatalf("EstimateTokensFromChars(%d) = %d, want %d", c.in, got, c.want)
        }
    }
}

func TestEstimatePromptTokens(t *testing.T) {
    sys := "system"
    user := "user message"
    ex := []string{"abc", "defg"}
    got := EstimatePromptTokens(sys, user, ex)
    // sys(6)->2, user(12)->3, ex: 3->1, 4->1 => total 7
    if got != 7 {
        t.Fatalf("EstimatePromptTokens() = %d, want %d", got, 7)
    }
}

func TestModelContextTokens(t *testing.T) {
    if ModelContextTokens("") != 8192 {
        t.Fatal("empty model should default to 8192")
    }
    if ModelContextTokens("gpt-4o") < 100_000 {
        t.Fatal("gpt-4o should be large (~128k)")
    }
    if ModelContextTokens("LLAMA3-8B-8192") != 8192 {
        t.Fatal("case-insensitive match for llama3-8b-8192 should be 8192")
    }
    if ModelContextTokens("some-model-16384") != 16384 {
        t.Fatal("trailing window number should be honored")
    }
    if ModelContextTokens("mystery") != 8192 {
        t.Fatal("unknown model should default to 8192")
    }
}

func TestRemainingContextClampsAtZero(t *testing.T) {
    model := "llama3-8b-8192"
    if rem := RemainingContext(model, 1000, 2000); rem != 8192-3000 {
        t.Fatalf("remaining = %d, want %d", rem, 8192-3000)
    }
    if rem := RemainingContext(model, 1, 9000); rem != 0 {
        t.Fatalf("remaining should clamp at 0 on overflow, got %d", rem)
    }
}

func TestHeadroomTokens(t *testing.T) {
    if HeadroomTokens("gpt-4o") < 512 {
        t.Fatalf("headroom should be at least 512")
    }
    if HeadroomTokens("") != 512 { // 5% of 8192 is 409.6 => ceil=410, but floor is 512
        t.Fatalf("default model headroom should floor to 512")
    }
}

func TestClampContextBudget(t *testing.T) {
    // 8192 - (1000 + 512) - 200 = 6480 leaves the default 3000 untouched.
    if got := ClampContextBudget("llama3-8b-8192", 3000, 1000, 200); got != 3000 {
        t.Fatalf("ClampContextBudget = %d, want 3000", got)
    }
    if got := ClampContextBudget("llama3-8b-8192", 100_000, 1000, 200); got != 6480 {
        t.Fatalf("ClampContextBudget = %d, want 6480", got)
    }
}
