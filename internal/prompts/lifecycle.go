package prompts

// CompactionNotice replaces summarized-away history in the rendered
// transcript. The model sees this instead of the dropped turns.
const CompactionNotice = "[Older conversation compacted for brevity. Only the most recent turns are kept here.]"

// EmptyRespondFallback is returned when a respond action arrives with
// empty content.
const EmptyRespondFallback = "I tried to respond, but my content was empty."

// ToolNoAnswerFallback is returned when the summarization call after a
// tool execution yields no text.
const ToolNoAnswerFallback = "I used a tool but couldn't form a response."

// UnparseableOutputFallback is returned when the decision call yields
// no text at all.
const UnparseableOutputFallback = "I could not understand my own output."

// OfflineEchoPrefix opens the default reply in offline mode when no
// rule trigger matches the user's message.
const OfflineEchoPrefix = "Hi, I'm Valet running in offline mode. I received: "

// BackendApology opens the canned respond action emitted when a model
// backend cannot be reached. The raw error detail is appended after it.
const BackendApology = "I couldn't reach the model backend due to an error."
