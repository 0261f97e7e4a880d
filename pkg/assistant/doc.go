/*
Package assistant answers free-form questions about JavaNet edTech Suite.

Hosted language models are tried in order (OpenAI, then Anthropic, both via
langchaingo). A provider that errors or returns an empty reply is skipped;
the last resort is a keyword responder that always answers.
*/
package assistant
