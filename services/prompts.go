package services

// 本文件集中存放所有LLM提示词模板
// Gemini 使用单条提示而非 system/user 成对消息

const sentimentGeneralPrompt = `You are a highly accurate sentiment analysis AI. Analyze the sentiment of the following Persian text. Categorize it as 'POSITIVE', 'NEGATIVE', or 'NEUTRAL'. Return ONLY a valid JSON object in the format: '{ "sentiment": "CATEGORY", "score": 0.95, "notes": "A brief note about the analysis." }'.

Text to analyze: "%s"`

const sentimentBusinessPrompt = `You are a customer-feedback analyst for Persian-language businesses. Classify the business intent of the following Persian text as one of 'SATISFIED', 'DISSATISFIED', 'INQUIRY' or 'OTHER'. Return ONLY a valid JSON object in the format: '{ "sentiment": "CATEGORY", "score": 0.95, "notes": "A brief note about the analysis." }'.

Text to analyze: "%s"`

const summarizationPrompt = `You are a professional text summarizer. Summarize the following Persian text in approximately %d words. Respond ONLY with the summarized Persian text and nothing else. Do not add any titles or introductory phrases.

Text to summarize: "%s"`

const aggregatePrompt = `You are a customer-feedback analyst. The following is a numbered list of Persian customer comments about one product or service. Analyze them as a whole for the '%s' dimension and return ONLY a valid JSON object in the format: '{ "overall_sentiment": "CATEGORY", "satisfaction_score": 75, "key_positives": ["..."], "key_negatives": ["..."], "summary": "..." }'. satisfaction_score is an integer from 0 to 100. key_positives and key_negatives each list at most five recurring themes, in Persian. summary is a short Persian paragraph.

Comments:
%s`
