// ABOUTME: Token-budget and timeout scaling for translation calls
// ABOUTME: Pure functions with documented floors and ceilings
package translate

import "time"

const (
	// minTokenBudget is the floor: very small budgets on some providers
	// paradoxically return empty output, so never go below this.
	minTokenBudget = 256
	// maxTokenBudget caps cost and latency for pathological inputs.
	maxTokenBudget = 1536

	// minCallTimeout covers connection setup plus a short completion.
	minCallTimeout = 12 * time.Second
	// maxCallTimeout is the hard ceiling; the call sits on the live
	// conversation path and must stay under a user's patience threshold.
	maxCallTimeout = 45 * time.Second
)

// TokenBudget returns the max-output-token allowance for an input of
// inputLen characters. Translations are roughly length-preserving, so the
// budget grows linearly with the input between the floor and the ceiling.
func TokenBudget(inputLen int) int {
	budget := minTokenBudget + inputLen/2
	if budget > maxTokenBudget {
		return maxTokenBudget
	}
	return budget
}

// CallTimeout returns the request timeout for an input of inputLen
// characters: one extra second per 200 characters over the floor,
// capped at the ceiling.
func CallTimeout(inputLen int) time.Duration {
	timeout := minCallTimeout + time.Duration(inputLen/200)*time.Second
	if timeout > maxCallTimeout {
		return maxCallTimeout
	}
	return timeout
}
