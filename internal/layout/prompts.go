package layout

// Default prompts. They are configuration: loaded once by the caller and
// injected through constructors, never mutated at runtime.

const DefaultLayoutPrompt = `You are a legal-document layout analyst. ` +
	`Describe every logical block on each page of the attached PDF as a JSON array. ` +
	`Each element must be an object with "tag" (Heading, Paragraph, List, Table, Footnote, Caption or PageHeader), ` +
	`"content" (the block's full text, reading order preserved) and "page_number" (1-based within the whole document). ` +
	`Do not summarize, do not merge blocks across columns, and return ONLY JSON.`

const DefaultConsolidationPrompt = `Two independent analyses of the attached page are given below as JSON. ` +
	`Merge them into a single authoritative JSON array conforming to the target schema. ` +
	`Prefer the version that matches the page image when they disagree; keep every block either analysis found on the page; ` +
	`preserve reading order. Return ONLY the merged JSON.`

const DefaultSanitizePrompt = `Clean the JSON below so it strictly conforms to the block schema: ` +
	`keep only schema fields, coerce stringifiable scalars, preserve block order, drop commentary. ` +
	`Return ONLY the cleaned JSON.`

const DefaultVerifyPrompt = `You are given a JSON description of a page's layout and the page itself. ` +
	`Answer with the single word "pass" if the JSON faithfully describes the page's blocks and their text, ` +
	`or "fail" followed by a short reason if it does not.`
