package constants

// Fallback texts shown when the coach collaborator is unavailable.
const (
	FallbackReply          = "Sorry, I couldn't think that through right now. Please try again in a moment."
	FallbackDisconnected   = "The coach seems to be offline. Please check your network settings."
	FallbackChatError      = "Sorry, something went wrong on my side. Please try again later."
	FallbackPrompt         = "What small thing made you happy today?"
	FallbackPromptNoAnswer = "Write down one good thing around you right now."

	CoachGreeting = "Hi, I'm your CBT companion. If something is bothering you, or a negative thought keeps coming back, tell me about it and we'll look at it from another angle together."
)

// Instructions sent to the coach collaborator.
const (
	ThoughtInstruction = `You are a compassionate, professional CBT (cognitive behavioural therapy) counsellor.
Help the user notice cognitive distortions in their negative thoughts (all-or-nothing thinking,
catastrophising, emotional reasoning and so on) and guide them through cognitive restructuring.

Reply in four short steps:
1. **Empathy**: briefly acknowledge how the user feels.
2. **Distortions**: name one or two distortions you see (or analyse the problem objectively if there are none).
3. **Reframe**: offer a more balanced thought, ideally with a gratitude angle.
4. **Next step**: suggest one tiny, concrete action.

Keep the tone warm and supportive and the reply short enough to read on a phone. Use Markdown lists and bold.`

	PromptRequest = "Give me one short, warm gratitude journaling prompt or question that helps someone notice the good in their life. One sentence only."

	InsightRequest = "Read this gratitude journal entry and reply with brief (under 50 words) positive feedback or a small psychological observation that reinforces the writer's positive feelings:\n\n%q"
)
