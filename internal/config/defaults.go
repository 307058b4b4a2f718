package config

import "flowpack/internal/classify"

const (
	defaultScratchDir    = "temp_repos"
	defaultStagingDir    = "n8n-unified-templates/workflows_staging"
	defaultOrganizedDir  = "n8n-organized-workflows"
	defaultListFile      = "list.text"
	defaultStateDir      = "~/.local/share/flowpack"
	defaultGitBinary     = "git"
	defaultMergeFallback = "uncategorized"
	// The organizer fallback is capitalized; existing organized trees use this label.
	defaultOrganizeFallback = "Uncategorized"
	defaultProgressEvery    = 50
	defaultCleanExtension   = ".json"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

func defaultGitFallbacks() []string {
	return []string{`C:\Program Files\Git\cmd\git.exe`}
}

func defaultSources() []string {
	return []string{
		"https://github.com/Salheen10/n8n-free-automation-templates-5000.git",
		"https://github.com/jz-clln/150-n8n-templates.git",
		"https://github.com/Danitilahun/n8n-workflow-templates.git",
		"https://github.com/devlikeapro/waha-n8n-templates.git",
		"https://github.com/creativetimofficial/free-n8n-workflow-templates-collection.git",
		"https://github.com/ritik-prog/n8n-automation-templates-5000.git",
		"https://github.com/lucaswalter/n8n-ai-automations.git",
		"https://github.com/Marvomatic/n8n-templates.git",
		"https://github.com/wassupjay/n8n-free-templates.git",
		"https://github.com/enescingoz/awesome-n8n-templates.git",
	}
}

func defaultExtensions() []string {
	return []string{".json"}
}

func defaultGenericNames() []string {
	return []string{"template.json", "workflow.json", "data.json", "backup.json"}
}

func defaultMergeCategories() []classify.Category {
	return []classify.Category{
		{Name: "marketing", Keywords: []string{"marketing", "email", "social", "facebook", "twitter", "linkedin", "seo"}},
		{Name: "devops", Keywords: []string{"docker", "server", "monitor", "aws", "azure", "git", "cicd"}},
		{Name: "ai", Keywords: []string{"openai", "gpt", "chatgpt", "ai", "llm", "stable diffusion"}},
		{Name: "productivity", Keywords: []string{"notion", "slack", "telegram", "todo", "calendar", "schedule"}},
		{Name: "finance", Keywords: []string{"crypto", "stripe", "invoice", "payment", "bitcoin"}},
		{Name: "databases", Keywords: []string{"mysql", "postgres", "mongodb", "sql"}},
	}
}

func defaultOrganizeCategories() []classify.Category {
	return []classify.Category{
		{Name: "AI & LLMs", Keywords: []string{
			"ai", "gpt", "openai", "chatgpt", "llm", "stable-diffusion", "midjourney",
			"claude", "voice", "transcribe", "whisper", "bot", "chatbot", "vision",
		}},
		{Name: "Marketing & Social", Keywords: []string{
			"marketing", "email", "facebook", "twitter", "linkedin", "instagram",
			"social", "seo", "outreach", "newsletter", "campaign", "lead", "ads",
			"wordpress", "blog", "content", "youtube", "tiktok",
		}},
		{Name: "Messaging & Chat", Keywords: []string{
			"whatsapp", "telegram", "slack", "discord", "sms", "twilio", "notification",
			"message", "chat", "waha", "signal",
		}},
		{Name: "DevOps & IT", Keywords: []string{
			"git", "github", "gitlab", "docker", "kubernetes", "server", "monitor",
			"uptime", "backup", "aws", "azure", "cloud", "deployment", "webhook",
			"api", "http", "error", "log",
		}},
		{Name: "Productivity & Office", Keywords: []string{
			"notion", "google", "drive", "sheets", "docs", "calendar", "todo",
			"task", "clickup", "trello", "asana", "jira", "airtable", "office",
			"outlook", "gmail", "schedule", "meeting",
		}},
		{Name: "Data & Databases", Keywords: []string{
			"sql", "mysql", "postgres", "mongo", "database", "scrape", "extract",
			"sync", "backup", "json", "csv", "transform", "data",
		}},
		{Name: "Finance & Sales", Keywords: []string{
			"stripe", "invoice", "payment", "crm", "hubspot", "salesforce", "pipedrive",
			"crypto", "bitcoin", "currency", "finance", "accounting", "woo",
		}},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchDir:   defaultScratchDir,
			StagingDir:   defaultStagingDir,
			OrganizedDir: defaultOrganizedDir,
			ListFile:     defaultListFile,
			StateDir:     defaultStateDir,
		},
		Acquire: Acquire{
			GitBinary:    defaultGitBinary,
			GitFallbacks: defaultGitFallbacks(),
			Sources:      defaultSources(),
		},
		Merge: Merge{
			Extensions: defaultExtensions(),
			Fallback:   defaultMergeFallback,
			Categories: defaultMergeCategories(),
		},
		Organize: Organize{
			Extensions:    defaultExtensions(),
			Fallback:      defaultOrganizeFallback,
			GenericNames:  defaultGenericNames(),
			ProgressEvery: defaultProgressEvery,
			Categories:    defaultOrganizeCategories(),
		},
		Clean: Clean{
			Extension: defaultCleanExtension,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
