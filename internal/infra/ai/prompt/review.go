package prompt

import "fmt"

// reviewTemplate asks for the four feedback categories. The code is placed
// verbatim inside a fenced block.
const reviewTemplate = `
You are an expert code reviewer. Analyze the following code for:
1. Code quality
2. Performance issues
3. Best practices
4. Security vulnerabilities

Provide detailed feedback and suggestions for improvement.

Here is the code:
` + "```" + `
%s
` + "```" + `
`

// Review wraps submitted code in the fixed review template.
func Review(code string) string {
	return fmt.Sprintf(reviewTemplate, code)
}

// Categories lists the feedback areas the template requests, in order.
func Categories() []string {
	return []string{"Code quality", "Performance issues", "Best practices", "Security vulnerabilities"}
}
