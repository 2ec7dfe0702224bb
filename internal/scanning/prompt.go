package scanning

// transcribePrompt asks a vision model for a plain OCR transcript
const transcribePrompt = `You are an OCR engine reading a photographed grocery receipt.
Transcribe every line of printed text exactly as it appears, top to bottom.

Rules:
- Keep one receipt line per output line, in the original order
- Preserve upper and lower case, spacing inside a line, and punctuation
- Copy numbers exactly, including decimal points and minus signs
- Do not correct, summarize, translate or reformat anything
- Do not add commentary, headings or markdown code blocks
- If the image contains no readable text, return an empty response`

// entityPrompt asks a language model for named entities, in the shape of
// parsing.Entity. The receipt text is appended after it.
const entityPrompt = `You are analyzing the OCR text of a store receipt. Find the named entities in it.

Classify each entity with exactly one of these types:
- "LOCATION": store names with a place, addresses, cities
- "DATE": the purchase date or date and time
- "CONSUMER_GOOD": a purchased product, one entry per product line
- "OTHER": anything else worth naming (people, organizations, card types)

Return ONLY a JSON array in this exact format:
[{"name": "Whole Milk", "type": "CONSUMER_GOOD"}]

Important:
- Use the product name as printed, without prices or quantities
- List entities in the order they appear in the text
- Do not include any text before or after the JSON
- Do not use markdown code blocks

Receipt text:
`
