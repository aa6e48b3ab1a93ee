package i18n

// messagesEN mirrors the pt-BR catalog for English-speaking users.
var messagesEN = map[string]string{
	// Application
	"app.name":    "Mentora",
	"app.tagline": "Your study mentor",
	"app.version": "Mentora v%s",

	// Generic errors
	"error.ai.unavailable": "Sorry, I'm having technical difficulties right now. Please try again in a moment.",
	"error.generic":        "Something went wrong. Please try again.",
	"error.not.found":      "We couldn't find what you're looking for.",
	"error.rate.limited":   "Slow down! You're going too fast. Wait a moment.",
	"error.csrf":           "Session expired. Reload the page and try again.",
	"error.empty.message":  "Write a message before sending.",
	"error.empty.topic":    "Pick a topic for the mind map.",
	"error.invalid.url":    "That address doesn't look valid.",
	"error.blocked.url":    "That address cannot be fetched.",
	"error.duplicate":      "You already saved that link.",

	// Sidebar and navigation
	"nav.chat":        "Chats",
	"nav.mindmap":     "Mind maps",
	"nav.resources":   "Resources",
	"nav.progress":    "Progress",
	"sidebar.new":     "New chat",
	"sidebar.recent":  "Recent",
	"sidebar.empty":   "No chats yet",
	"sidebar.close":   "Collapse menu",
	"sidebar.open":    "Open menu",
	"profile.guest":   "Guest",
	"profile.edit":    "What should we call you?",
	"profile.save":    "Save",
	"profile.saved":   "Name updated!",

	// Chat
	"chat.placeholder":   "Ask your mentor anything...",
	"chat.send":          "Send",
	"chat.thinking":      "Thinking...",
	"chat.welcome":       "Hi! I'm Mentora, your study companion. What shall we talk about today?",
	"chat.untitled":      "New chat",
	"session.rename":     "Rename",
	"session.archive":    "Archive",
	"session.delete":     "Delete",

	// Mind maps
	"mindmap.title":       "Mind maps",
	"mindmap.placeholder": "Which topic do you want to map?",
	"mindmap.generate":    "Generate map",
	"mindmap.generating":  "Drawing your map...",
	"mindmap.empty":       "No mind maps yet. Generate your first!",

	// Resources
	"resources.title":       "Study resources",
	"resources.placeholder": "Paste a link to save",
	"resources.add":         "Save",
	"resources.empty":       "No resources saved yet.",
	"resources.open":        "Open",
	"resources.remove":      "Remove",

	// Progress / gamification
	"stats.title":        "Your progress",
	"stats.points":       "points",
	"stats.level":        "Level",
	"stats.streak":       "Streak",
	"stats.streak.days":  "%d day(s) in a row",
	"stats.next.level":   "%d points to %s",
	"stats.max.level":    "You reached the top!",
	"stats.badges":       "Achievements",
	"stats.badges.empty": "Keep studying to earn achievements.",
	"stats.badge.new":    "New achievement: %s!",
	"stats.level.up":     "You reached level %s!",

	// Level names, in threshold order
	"level.0": "Beginner",
	"level.1": "Apprentice",
	"level.2": "Explorer",
	"level.3": "Practitioner",
	"level.4": "Mentor",
	"level.5": "Master",
	"level.6": "Legend",

	// Badges
	"badge.first_chat.name":   "First chat",
	"badge.first_chat.desc":   "Sent your first message to the mentor",
	"badge.chatterbox.name":   "Chatterbox",
	"badge.chatterbox.desc":   "Exchanged 100 messages with the mentor",
	"badge.first_map.name":    "First map",
	"badge.first_map.desc":    "Generated your first mind map",
	"badge.cartographer.name": "Cartographer",
	"badge.cartographer.desc": "Created 10 mind maps",
	"badge.bookworm.name":     "Bookworm",
	"badge.bookworm.desc":     "Saved 5 study resources",
	"badge.week_streak.name":  "Solid week",
	"badge.week_streak.desc":  "Studied 7 days in a row",
	"badge.marathoner.name":   "Marathoner",
	"badge.marathoner.desc":   "Studied 30 days in a row",
	"badge.self_starter.name": "First steps",
	"badge.self_starter.desc": "Started your first study session",

	// CLI
	"cli.root.short":      "Mentora, your AI study mentor",
	"cli.serve.short":     "Start the Mentora web server",
	"cli.chat.short":      "Open the chat in the terminal",
	"cli.ask.short":       "Ask the mentor a single question",
	"cli.mindmap.short":   "Generate a mind map in the terminal",
	"cli.sessions.short":  "Manage saved chats",
	"cli.stats.short":     "Show your progress",
	"cli.resources.short": "Manage study resources",
	"cli.migrate.short":   "Apply database migrations",
	"cli.mcp.short":       "Expose Mentora as an MCP server",
	"cli.version.short":   "Show version",

	"cli.sessions.list.short":    "List saved chats",
	"cli.sessions.rm.short":      "Remove a chat",
	"cli.resources.list.short":   "List saved resources",
	"cli.resources.import.short": "Import pages from a site",

	"cli.sessions.empty":   "No saved chats.",
	"cli.sessions.deleted": "Chat removed.",
	"cli.ask.empty":        "The question cannot be empty.",
	"cli.import.done":      "%d page(s) imported from %s",
	"cli.resources.empty":  "No saved resources.",
	"cli.migrate.done":     "Migrations applied.",

	// TUI
	"tui.placeholder":  "Write your message",
	"tui.help.send":    "send",
	"tui.help.new":     "new chat",
	"tui.help.quit":    "quit",
	"tui.help.cancel":  "cancel",
	"tui.help.scroll":  "scroll",
	"tui.connecting":   "Connecting to your mentor...",
	"tui.thinking":     "Your mentor is thinking...",
	"tui.you":          "You",
	"tui.mentor":       "Mentora",
	"tui.canceled":     "(canceled)",
	"tui.timeout":      "The reply took too long. Try again.",
	"tui.session.new":  "Started a new chat.",
	"tui.tips.title":   "Tips for getting started:",
	"tui.tips.ask":     "  • Ask a question about any subject",
	"tui.tips.new":     "  • Ctrl+N starts a new conversation",
	"tui.tips.history": "  • Up and down arrows recall earlier questions",
	"tui.tips.quit":    "  • Esc or Ctrl+C to quit",
}
