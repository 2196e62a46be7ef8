package pipeline

// Prompt templates for the model-backed stages. Placeholders use
// {name} syntax and are substituted by the llm caller.

const classifyPrompt = `Classify the intent of this email as one of: complaint, request, feedback, inquiry.
Also analyze the tone of the email and provide a confidence score between 0 and 1.

Email: {email_body}

Respond in JSON format:
{
    "intent": "complaint|request|feedback|inquiry",
    "tone": "angry|frustrated|neutral|happy|urgent",
    "confidence": 0.95
}`

const summarizePrompt = `Summarize the email briefly in 2-3 lines, focusing on:
1. The sender's main point or request
2. The emotional tone and urgency
3. Key details that need attention

Email: {email_body}
Tone: {tone}
Intent: {intent}

Provide only the summary text, no additional commentary.`

const replyPrompt = `You are a professional support agent. Write a polite and context-aware reply to this customer email.

INTENT: {intent}
TONE TO USE: {required_tone}
EMAIL SUMMARY: {summary}
CUSTOMER'S TONE: {customer_tone}
CONVERSATION HISTORY: {memory_context}

Original Email Subject: {subject}

Guidelines:
- Match the {required_tone} tone
- Address the customer by name if possible (extract from email)
- Be specific and helpful
- Include relevant details from conversation history
- Keep it professional but warm

Respond in JSON format:
{
    "subject": "Re: Original Subject",
    "body": "Your polite reply here...",
    "tone_used": "description of tone used"
}`
