package config

// PermsCode - Minimal perms code for bot to work
// View Channel, Send Messages, Embed Links, Attach Files, Read Message History, Manage Roles
const PermsCode int64 = 268553216

// VerifyButtonPrefix - Custom ID prefix of the Verify button, followed by the guild ID
const VerifyButtonPrefix string = "verify_"

// MaxMarkerLength - Longest marker accepted by setup
const MaxMarkerLength int = 100

// Embeds

// EmbedFooter - Footer for all verification embeds
const EmbedFooter string = "Botto Verification System"

// ColorSetup - Color of the verification embed posted by setup
const ColorSetup int = 0xED4245

// ColorPrompt - Color of the screenshot request sent in DMs
const ColorPrompt int = 0x57F287

// ColorProcessing - Color of the processing notice
const ColorProcessing int = 0xED4245

// OraclePrompt - Instruction sent to vision oracles together with the screenshot
const OraclePrompt string = "Extract all visible text from the screenshot. ONLY return plain text. " +
	"If the image contains no readable text, return an empty response."
