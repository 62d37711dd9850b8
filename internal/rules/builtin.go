package rules

// Builtin returns the default rule set shipped with the scanner. It is
// merged through the same inclusion filter as rule sets loaded from
// disk.
func Builtin() RuleSet {
	return RuleSet{
		Name:        "arcshield-core",
		Version:     "1.2.0",
		Description: "Core detection rules for common vulnerability signatures.",
		Author:      "arcshield",
		Rules: []Rule{
			{
				ID:          "js-eval-injection",
				Name:        "Dynamic code execution via eval",
				Description: "eval() on dynamic input executes arbitrary code in the caller's context.",
				Severity:    "critical",
				Category:    "injection",
				Languages:   []string{"javascript", "typescript"},
				Patterns: []Pattern{
					{Pattern: `\beval\s*\(`, Description: "direct eval call"},
					{Pattern: `new\s+Function\s*\(`, Description: "Function constructor"},
				},
				CWE:         "CWE-95",
				OWASP:       "A03:2021",
				Remediation: "Replace eval/Function with explicit parsing (JSON.parse, a dispatch table, or a safe expression evaluator).",
				Enabled:     true,
				Confidence:  ConfidenceHigh,
			},
			{
				ID:          "py-subprocess-shell",
				Name:        "Shell command execution with shell=True",
				Description: "subprocess with shell=True interpolates untrusted input into a shell command line.",
				Severity:    "high",
				Category:    "injection",
				Languages:   []string{"python"},
				Patterns: []Pattern{
					{Pattern: `subprocess\.(run|call|Popen|check_output)\s*\([^)]*shell\s*=\s*True`, Description: "subprocess with shell=True"},
					{Pattern: `os\.system\s*\(`, Description: "os.system call"},
				},
				CWE:         "CWE-78",
				OWASP:       "A03:2021",
				Remediation: "Pass the command as an argument list with shell=False and validate each argument.",
				Enabled:     true,
				Confidence:  ConfidenceHigh,
			},
			{
				ID:          "sql-string-concat",
				Name:        "SQL built by string concatenation",
				Description: "Queries assembled from string fragments and runtime values bypass parameterization.",
				Severity:    "high",
				Category:    "injection",
				Languages:   []string{LanguageAny},
				Patterns: []Pattern{
					{Pattern: `(?i)(SELECT|INSERT|UPDATE|DELETE)\s+.*\s*(\+|\|\||%s|\$\{|f")`, Description: "SQL keyword followed by concatenation"},
					{Pattern: `(?i)execute\s*\(\s*["'].*["']\s*(\+|%|\.format)`, Description: "execute with formatted query"},
				},
				ExcludePatterns: []Pattern{
					{Pattern: `(?i)(parameterize|prepare[d]?\s*statement|\?\s*,|bindparam|placeholders?)`},
				},
				CWE:         "CWE-89",
				OWASP:       "A03:2021",
				Remediation: "Use parameterized queries or a query builder; never splice values into SQL text.",
				Enabled:     true,
				Confidence:  ConfidenceMedium,
			},
			{
				ID:          "hardcoded-secret",
				Name:        "Hardcoded credential or API key",
				Description: "Credential material committed to source is recoverable from history and backups.",
				Severity:    "critical",
				Category:    "data_exposure",
				Languages:   []string{LanguageAny},
				Patterns: []Pattern{
					{Pattern: `(?i)(api[_-]?key|secret|password|token)\s*[:=]\s*["'][A-Za-z0-9+/_\-]{16,}["']`, Description: "credential assignment with literal value"},
					{Pattern: `-----BEGIN (RSA |EC |OPENSSH )?PRIVATE KEY-----`, Multiline: true, Description: "embedded private key block"},
				},
				ExcludePatterns: []Pattern{
					{Pattern: `(?i)(os\.environ|process\.env|getenv|example|placeholder|changeme|xxxx)`},
				},
				CWE:         "CWE-798",
				OWASP:       "A07:2021",
				Remediation: "Move secrets to environment variables or a secret manager and rotate any committed value.",
				Enabled:     true,
				Confidence:  ConfidenceMedium,
			},
			{
				ID:          "weak-hash-algorithm",
				Name:        "Weak cryptographic hash",
				Description: "MD5 and SHA-1 are broken for any security-sensitive use.",
				Severity:    "medium",
				Category:    "cryptography",
				Languages:   []string{LanguageAny},
				Patterns: []Pattern{
					{Pattern: `(?i)\b(md5|sha1)\s*\(`, Description: "weak hash constructor"},
					{Pattern: `(?i)(hashlib\.(md5|sha1)|crypto/(md5|sha1)|MessageDigest\.getInstance\s*\(\s*"(MD5|SHA-?1)")`, Description: "weak hash via stdlib"},
				},
				ExcludePatterns: []Pattern{
					{Pattern: `(?i)(non[- ]?security|checksum only|etag|cache[- ]key)`},
				},
				CWE:         "CWE-328",
				OWASP:       "A02:2021",
				Remediation: "Use SHA-256 or stronger; for passwords use bcrypt, scrypt, or argon2.",
				Enabled:     true,
				Confidence:  ConfidenceHigh,
			},
			{
				ID:          "dom-xss-sink",
				Name:        "Unsanitized DOM injection sink",
				Description: "Assigning dynamic markup to innerHTML or document.write renders attacker-controlled HTML.",
				Severity:    "high",
				Category:    "injection",
				Languages:   []string{"javascript", "typescript"},
				Frameworks:  []string{LanguageAny},
				Patterns: []Pattern{
					{Pattern: `\.innerHTML\s*=`, Description: "innerHTML assignment"},
					{Pattern: `document\.write\s*\(`, Description: "document.write call"},
					{Pattern: `dangerouslySetInnerHTML`, Description: "React raw HTML prop"},
				},
				ExcludePatterns: []Pattern{
					{Pattern: `(?i)(DOMPurify|sanitizeHtml|sanitize-html|escapeHtml)`},
				},
				CWE:         "CWE-79",
				OWASP:       "A03:2021",
				Remediation: "Render via textContent or a sanitizer such as DOMPurify before inserting markup.",
				Enabled:     true,
				Confidence:  ConfidenceMedium,
			},
			{
				ID:          "sol-tx-origin-auth",
				Name:        "Authorization via tx.origin",
				Description: "tx.origin authentication is phishable: an intermediate contract inherits the caller's authority.",
				Severity:    "high",
				Category:    "smart_contract",
				Languages:   []string{"solidity"},
				Frameworks:  []string{"solidity"},
				Patterns: []Pattern{
					{Pattern: `require\s*\(\s*tx\.origin`, Description: "tx.origin in require"},
					{Pattern: `tx\.origin\s*==`, Description: "tx.origin comparison"},
				},
				CWE:         "CWE-477",
				Remediation: "Authenticate with msg.sender instead of tx.origin.",
				Enabled:     true,
				Confidence:  ConfidenceHigh,
			},
			{
				ID:          "sol-delegatecall",
				Name:        "Delegatecall to dynamic target",
				Description: "delegatecall executes foreign code against this contract's storage; a dynamic target hands over the contract.",
				Severity:    "critical",
				Category:    "smart_contract",
				Languages:   []string{"solidity"},
				Frameworks:  []string{"solidity"},
				Patterns: []Pattern{
					{Pattern: `\.delegatecall\s*\(`, Description: "delegatecall invocation"},
				},
				ExcludePatterns: []Pattern{
					{Pattern: `(?i)(immutable|constant)\s+.*(implementation|target)`},
				},
				CWE:         "CWE-829",
				Remediation: "Restrict delegatecall targets to audited, immutable implementation addresses.",
				Enabled:     true,
				Confidence:  ConfidenceMedium,
			},
			{
				ID:          "prompt-override-phrase",
				Name:        "Prompt injection override phrase",
				Description: "Instruction-override phrases embedded in prompt or template files subvert model guardrails.",
				Severity:    "medium",
				Category:    "prompt_injection",
				Languages:   []string{LanguageAny},
				Patterns: []Pattern{
					{Pattern: `(?i)ignore (all )?(previous|prior) instructions`, Description: "override phrase"},
					{Pattern: `(?i)(disregard|bypass).{0,60}(guardrail|safety|system prompt)`, Description: "jailbreak phrasing"},
				},
				CWE:         "CWE-1427",
				Remediation: "Treat prompt content as untrusted input and filter override directives before model invocation.",
				Enabled:     true,
				Confidence:  ConfidenceLow,
			},
			{
				ID:          "debug-mode-enabled",
				Name:        "Debug mode enabled in configuration",
				Description: "Debug settings leak stack traces, secrets, and internal state in production.",
				Severity:    "low",
				Category:    "configuration",
				Languages:   []string{LanguageAny},
				Patterns: []Pattern{
					{Pattern: `(?i)\bdebug\s*[:=]\s*(true|1|"true")`, Description: "debug flag set"},
				},
				ExcludePatterns: []Pattern{
					{Pattern: `(?i)(if\s+.*env|development only|test)`},
				},
				CWE:         "CWE-489",
				OWASP:       "A05:2021",
				Remediation: "Gate debug settings behind environment detection and default to off.",
				Enabled:     true,
				Confidence:  ConfidenceLow,
			},
		},
	}
}
