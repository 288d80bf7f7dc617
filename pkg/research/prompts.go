package research

import (
	"fmt"
	"strings"
)

func buildAnalysisPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("Analyze this research query and identify:\n")
	prompt.WriteString("1. The main topic/subject\n")
	prompt.WriteString("2. Key aspects to research\n")
	prompt.WriteString("3. Type of information needed (comparison, facts, analysis, etc.)\n")
	prompt.WriteString("4. Potential sub-questions that would help answer this comprehensively\n\n")
	prompt.WriteString(fmt.Sprintf("Query: %q\n\n", query))
	prompt.WriteString("Provide a brief analysis of what needs to be researched and any specific angles to explore.")

	return prompt.String()
}

func buildSearchPrompt(query string) string {
	var prompt strings.Builder

	prompt.WriteString("Please research the following query comprehensively by searching the web:\n\n")
	prompt.WriteString(fmt.Sprintf("%q\n\n", query))
	prompt.WriteString("Provide a detailed, well-structured answer that:\n")
	prompt.WriteString("1. Addresses all aspects of the question\n")
	prompt.WriteString("2. Includes relevant facts and data\n")
	prompt.WriteString("3. Compares different perspectives when applicable\n")
	prompt.WriteString("4. Cites sources with proper attribution\n")
	prompt.WriteString("5. Is objective and balanced\n\n")
	prompt.WriteString("Make sure to include inline citations and references to your sources.")

	return prompt.String()
}

func buildContextModerationPrompt(content, originalQuery string) string {
	// Only the head of the response is needed for a contextual read
	snippet := content
	if len(snippet) > 1000 {
		snippet = snippet[:1000] + "..."
	}

	var prompt strings.Builder

	prompt.WriteString("Analyze the following research response for safety and appropriateness in the context of the original query.\n\n")
	prompt.WriteString(fmt.Sprintf("Original Query: %q\n", originalQuery))
	prompt.WriteString(fmt.Sprintf("Research Response: %q\n\n", snippet))
	prompt.WriteString("Check for:\n")
	prompt.WriteString("1. Factual accuracy concerns\n")
	prompt.WriteString("2. Potential misinformation\n")
	prompt.WriteString("3. Inappropriate content in context\n")
	prompt.WriteString("4. Bias or manipulative language\n")
	prompt.WriteString("5. Content that might be harmful if acted upon\n\n")
	prompt.WriteString("Provide assessment:\n")
	prompt.WriteString("CONTEXTUAL_SAFETY: [SAFE/UNSAFE]\n")
	prompt.WriteString("CONCERNS: [list any specific concerns]\n")
	prompt.WriteString("REASONING: [brief explanation]")

	return prompt.String()
}

func buildSynthesisPrompt(searchResult, originalQuery string) string {
	var prompt strings.Builder

	prompt.WriteString("Please review and improve this research response:\n\n")
	prompt.WriteString(fmt.Sprintf("Original Query: %q\n\n", originalQuery))
	prompt.WriteString("Research Result:\n")
	prompt.WriteString(searchResult)
	prompt.WriteString("\n\nPlease:\n")
	prompt.WriteString("1. Ensure the answer directly addresses the original query\n")
	prompt.WriteString("2. Improve clarity and structure\n")
	prompt.WriteString("3. Maintain all citations and sources\n")
	prompt.WriteString("4. Remove any redundant information\n")
	prompt.WriteString("5. Ensure professional and helpful tone\n")
	prompt.WriteString("6. Add appropriate disclaimers if needed\n\n")
	prompt.WriteString("Provide the final, polished response:")

	return prompt.String()
}
