package constant

const (
	// Retrieval tuning
	VectorDistanceCutoff = 0.8
	DefaultRetrieveLimit = 5

	// Generation tuning
	DefaultLLMTemperature    = 0.2
	DefaultLLMTimeoutSeconds = 60

	// Conversation lifecycle
	DefaultConversationTimeoutSeconds = 1800

	// Metadata keys carried by ingested documents
	MetadataSourceKey   = "source"
	MetadataQuestionKey = "Question"

	DefaultSourceName = "our documentation"

	// IngestTopicName is the in-process topic carrying source replacements.
	IngestTopicName = "documents.ingest"
)

// Greeting detection is a substring match against the lowered, trimmed question.
var GreetingKeywords = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening", "greetings",
}

const GreetingMessage = "Hello! I'm RedClouds AI Assistant. I'm here to help with any questions about our ERP solutions and services. How can I assist you today?"

var GreetingSuggestedQuestions = []string{
	"What are the main ERP modules RedClouds offers?",
	"How can RedClouds ERP benefit my business?",
	"Tell me about your pricing structures.",
	"How do I get technical support for RedClouds ERP?",
}

// FallbackMessage is returned when retrieval produces nothing to ground on.
const FallbackMessage = "I'm sorry, I couldn't find specific information about that in our documentation. Would you like me to connect you with a human support agent?"

// Follow-ups attached to the retrieval-miss short circuit.
var NoDocumentSuggestedQuestions = []string{
	"Can you please rephrase your question more specifically?",
	"What specific RedClouds ERP module are you interested in?",
	"Would you like to speak to a human support agent?",
}

// Follow-ups attached when the composer itself has no documents to excerpt.
var EmptyFallbackSuggestedQuestions = []string{
	"Could you please rephrase your question more specifically?",
	"What specific RedClouds ERP module are you interested in?",
	"Would you like me to connect you with a human support agent?",
}

// Follow-ups attached to the excerpt-based structured fallback.
var StructuredFallbackSuggestedQuestions = []string{
	"How can I rephrase my question to get a better answer?",
	"Can you tell me more about [topic from excerpt]?",
	"Is there a contact for human support?",
}

const (
	StructuredFallbackIntro = "I apologize, I couldn't provide a direct, comprehensive answer to your question based on the specific information I have at hand. However, here's some related information from our documentation that might be helpful:"

	StructuredFallbackOutro = "If this doesn't fully address your query, please try rephrasing it or providing more details. I'm here to assist you further."

	ClosingLine = "Please let me know if you need any further clarification or have additional questions."
)

// A generated answer that already closes with one of these is left alone,
// otherwise ClosingLine is appended.
var ClosingPhrases = []string{
	"let me know", "assist you further", "additional questions", "help you", "support you", "feel free", "clarification",
}

// Answers containing any of these are treated as unusable and replaced by the
// structured fallback.
var UnhelpfulPhrases = []string{
	"couldn't find specific information",
	"don't have enough information",
	"not explicitly stated",
	"not found in the documentation",
	"i cannot provide specific information",
}

const (
	UnexpectedErrorMessage      = "I apologize, an unexpected error occurred. Our team has been notified. Please try again shortly."
	ConversationNotFoundMessage = "Conversation not found"
)

// GroundedAnswerPromptV1 takes the joined documentation context and the user
// question, in that order.
const GroundedAnswerPromptV1 = `You are RedClouds AI Assistant, a highly intelligent, polite, and friendly customer service chatbot for RedClouds ICT Solutions, a company specializing in software development using ERP systems. Your primary role is to assist customers by providing accurate, formal, and helpful answers based *strictly* on the provided "Documentation Context".

**Your persona guidelines:**
-   **Formal yet Friendly**: Maintain a professional and respectful tone, but be approachable and helpful.
-   **Polite**: Always use polite language (e.g., "Certainly," "Please," "Thank you," "I apologize").
-   **Data-driven**: ONLY use information directly provided in the "Documentation Context" below. Do not use outside knowledge.
-   **Concise**: Provide clear and to-the-point answers without unnecessary jargon.
-   **Handling Unknowns**: If the answer is NOT present in the provided context, politely state that you couldn't find the information in your documentation. Do NOT invent information.
-   **Structured Answers**: Use bullet points or numbered lists for steps, features, or lists when appropriate for readability.
-   **Suggested Questions**: Conclude your response by suggesting 1-3 concise, relevant follow-up questions that a user might have, based on the current interaction and the provided context. Format these as a clear list.

---
Documentation Context:
%s
---

User Question: %s

AI Assistant's Answer:
`
