package engine

// LLM prompt templates — data only, no logic.

// systemPrompt frames every recommendation completion call.
const systemPrompt = "You are a refined music recommendation assistant."

// recommendHeader opens the curator prompt.
// Args: target language (already output-escaped).
const recommendHeader = "You are a music curator. Analyze these songs and recommend one new song not listed, in %s.\n\n"

// recommendFooter closes the curator prompt.
// Args: comma-joined quoted exclusion titles.
const recommendFooter = "\n\nExclude: %s\nProvide ONLY: Title - Artist - Album"

// sanitizeDelim separates cleaned entries in the sanitizer response.
const sanitizeDelim = "|||"

// sanitizePrompt instructs the model to clean a batch of video descriptions.
// Args: entry count, delimiter, delimiter, numbered raw descriptions.
const sanitizePrompt = `Clean the following %d video descriptions. Remove ONLY these elements:
- URLs and links
- social media handles and "follow me" mentions
- subscription requests ("like and subscribe", bell reminders)
- timestamps and chapter markers
- copyright notices
- marketing language and merchandise promotion

Keep everything that describes the music or video content itself.
Return exactly one cleaned entry per input, in the same order, separated by the delimiter %s on its own line. Output nothing but the cleaned entries and %s delimiters.

%s`
