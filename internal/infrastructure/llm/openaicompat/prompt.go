package openaicompat

import (
	"encoding/json"
	"fmt"
	"strings"
)

func buildTranscriptionPrompt(language string) string {
	return fmt.Sprintf(`You are an expert OCR system specialized in reading handwritten text with maximum accuracy.

This document is written in %s. Read and extract the text in %s.

INSTRUCTIONS:
1. Read each character and word carefully.
2. Do not assume or hallucinate fields; only extract what is clearly visible.
3. Pay special attention to numbers, names, addresses and email addresses; read them character by character.
4. For partially readable text, extract what you can see clearly, even if incomplete.
5. If text is completely illegible or blank, mark the value as "unreadable".
6. Create field names based on the actual labels, headings and form structure you see (in %s).
7. Preserve the logical structure and grouping of information using nested objects where needed.

Return ONLY a valid JSON object mapping field labels to values, with no markdown, no explanation, nothing before or after the JSON.`, language, language, language)
}

func buildTranslationPrompt(payload string, targetLanguage string) string {
	return fmt.Sprintf(`You are a translation assistant. Translate the following JSON document to %s.

RULES:
1. Translate ONLY the keys (field names) and string values.
2. Keep all numbers, dates and special characters unchanged.
3. Preserve the exact JSON structure and the exact set of keys.
4. Do not translate values that are already in %s.
5. If a value is "unreadable", keep it as is.

Return ONLY valid JSON with no additional text before or after.

JSON to translate:
%s`, targetLanguage, targetLanguage, payload)
}

func buildFieldExtractionPrompt(text string, language string) string {
	return fmt.Sprintf(`You are an expert form field extraction system. The document is in %s.

Analyze the following extracted text and identify all form fields with their values.

EXTRACTED TEXT:
%s

INSTRUCTIONS:
1. Infer a canonical snake_case name for every field.
2. Keep values typed: numbers stay numbers, text stays text, grouped fields become nested objects.
3. Do not invent fields that are not present in the extracted text.

Return ONLY a JSON object mapping canonical field names to values, no additional text.`, language, text)
}

func buildValidationPrompt(fields string) string {
	return `You are a form validation expert. For each field below, judge whether the value is plausible for its inferred type (dates look like dates, phone numbers like phone numbers, emails contain @, and so on).

Fields:
` + fields + `

Return ONLY a JSON object of the shape:
{"verdicts": [{"field": "<name>", "valid": true|false, "reason": "<short reason or null>"}]}
One verdict per input field, no extra keys, no additional text.`
}

func buildClassificationPrompt(content string) string {
	return `Analyze this form content and classify it into one of these categories:
- Invoice/Receipt
- Application Form
- Survey/Questionnaire
- Medical Form
- Legal Document
- Tax Document
- Educational Form
- Other

Form content:
` + content + `

Return ONLY a JSON object of the shape {"label": "<category>", "confidence": <number from 0 to 1>} with no additional text.`
}

func compactJSON(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return strings.TrimSpace(string(encoded))
}
