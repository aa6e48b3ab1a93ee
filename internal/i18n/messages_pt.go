package i18n

// messagesPT is the primary catalog. Every key must exist here; the other
// languages fall back to these entries.
var messagesPT = map[string]string{
	// Application
	"app.name":    "Mentora",
	"app.tagline": "Sua mentora de estudos",
	"app.version": "Mentora v%s",

	// Generic errors
	"error.ai.unavailable": "Desculpe, estou com dificuldades técnicas no momento. Por favor, tente novamente em alguns instantes.",
	"error.generic":        "Algo deu errado. Tente novamente.",
	"error.not.found":      "Não encontramos o que você procura.",
	"error.rate.limited":   "Calma! Você está indo rápido demais. Aguarde um pouco.",
	"error.csrf":           "Sessão expirada. Recarregue a página e tente de novo.",
	"error.empty.message":  "Escreva uma mensagem antes de enviar.",
	"error.empty.topic":    "Escolha um tema para o mapa mental.",
	"error.invalid.url":    "Esse endereço não parece válido.",
	"error.blocked.url":    "Esse endereço não pode ser acessado.",
	"error.duplicate":      "Você já guardou esse link.",

	// Sidebar and navigation
	"nav.chat":        "Conversas",
	"nav.mindmap":     "Mapas mentais",
	"nav.resources":   "Recursos",
	"nav.progress":    "Progresso",
	"sidebar.new":     "Nova conversa",
	"sidebar.recent":  "Recentes",
	"sidebar.empty":   "Nenhuma conversa ainda",
	"sidebar.close":   "Recolher menu",
	"sidebar.open":    "Abrir menu",
	"profile.guest":   "Visitante",
	"profile.edit":    "Como quer ser chamado?",
	"profile.save":    "Salvar",
	"profile.saved":   "Nome atualizado!",

	// Chat
	"chat.placeholder":   "Pergunte qualquer coisa à sua mentora...",
	"chat.send":          "Enviar",
	"chat.thinking":      "Pensando...",
	"chat.welcome":       "Olá! Sou a Mentora, sua companheira de estudos. Sobre o que vamos conversar hoje?",
	"chat.untitled":      "Nova conversa",
	"session.rename":     "Renomear",
	"session.archive":    "Arquivar",
	"session.delete":     "Excluir",

	// Mind maps
	"mindmap.title":       "Mapas mentais",
	"mindmap.placeholder": "Qual tema você quer mapear?",
	"mindmap.generate":    "Gerar mapa",
	"mindmap.generating":  "Desenhando seu mapa...",
	"mindmap.empty":       "Nenhum mapa mental ainda. Gere o primeiro!",

	// Resources
	"resources.title":       "Recursos de estudo",
	"resources.placeholder": "Cole um link para guardar",
	"resources.add":         "Guardar",
	"resources.empty":       "Nenhum recurso guardado ainda.",
	"resources.open":        "Abrir",
	"resources.remove":      "Remover",

	// Progress / gamification
	"stats.title":        "Seu progresso",
	"stats.points":       "pontos",
	"stats.level":        "Nível",
	"stats.streak":       "Sequência",
	"stats.streak.days":  "%d dia(s) seguidos",
	"stats.next.level":   "Faltam %d pontos para %s",
	"stats.max.level":    "Você chegou ao topo!",
	"stats.badges":       "Conquistas",
	"stats.badges.empty": "Continue estudando para ganhar conquistas.",
	"stats.badge.new":    "Nova conquista: %s!",
	"stats.level.up":     "Você subiu para o nível %s!",

	// Level names, in threshold order
	"level.0": "Iniciante",
	"level.1": "Aprendiz",
	"level.2": "Explorador",
	"level.3": "Praticante",
	"level.4": "Mentor",
	"level.5": "Mestre",
	"level.6": "Lenda",

	// Badges
	"badge.first_chat.name":   "Primeira conversa",
	"badge.first_chat.desc":   "Enviou a primeira mensagem à mentora",
	"badge.chatterbox.name":   "Bom de papo",
	"badge.chatterbox.desc":   "Trocou 100 mensagens com a mentora",
	"badge.first_map.name":    "Primeiro mapa",
	"badge.first_map.desc":    "Gerou o primeiro mapa mental",
	"badge.cartographer.name": "Cartógrafo",
	"badge.cartographer.desc": "Criou 10 mapas mentais",
	"badge.bookworm.name":     "Rato de biblioteca",
	"badge.bookworm.desc":     "Guardou 5 recursos de estudo",
	"badge.week_streak.name":  "Semana firme",
	"badge.week_streak.desc":  "Estudou 7 dias seguidos",
	"badge.marathoner.name":   "Maratonista",
	"badge.marathoner.desc":   "Estudou 30 dias seguidos",
	"badge.self_starter.name": "Primeiros passos",
	"badge.self_starter.desc": "Começou a primeira sessão de estudos",

	// CLI
	"cli.root.short":      "Mentora, sua mentora de estudos com IA",
	"cli.serve.short":     "Inicia o servidor web da Mentora",
	"cli.chat.short":      "Abre o chat no terminal",
	"cli.ask.short":       "Faz uma pergunta única à mentora",
	"cli.mindmap.short":   "Gera um mapa mental no terminal",
	"cli.sessions.short":  "Gerencia as conversas salvas",
	"cli.stats.short":     "Mostra seu progresso",
	"cli.resources.short": "Gerencia recursos de estudo",
	"cli.migrate.short":   "Aplica as migrações do banco de dados",
	"cli.mcp.short":       "Expõe a Mentora como servidor MCP",
	"cli.version.short":   "Mostra a versão",

	"cli.sessions.list.short":    "Lista as conversas salvas",
	"cli.sessions.rm.short":      "Remove uma conversa",
	"cli.resources.list.short":   "Lista os recursos guardados",
	"cli.resources.import.short": "Importa páginas de um site",

	"cli.sessions.empty":   "Nenhuma conversa salva.",
	"cli.sessions.deleted": "Conversa removida.",
	"cli.ask.empty":        "A pergunta não pode ficar vazia.",
	"cli.import.done":      "%d página(s) importada(s) de %s",
	"cli.resources.empty":  "Nenhum recurso guardado.",
	"cli.migrate.done":     "Migrações aplicadas.",

	// TUI
	"tui.placeholder":  "Escreva sua mensagem",
	"tui.help.send":    "enviar",
	"tui.help.new":     "nova conversa",
	"tui.help.quit":    "sair",
	"tui.help.cancel":  "cancelar",
	"tui.help.scroll":  "rolar",
	"tui.connecting":   "Conectando à mentora...",
	"tui.thinking":     "A mentora está pensando...",
	"tui.you":          "Você",
	"tui.mentor":       "Mentora",
	"tui.canceled":     "(cancelado)",
	"tui.timeout":      "A resposta demorou demais. Tente novamente.",
	"tui.session.new":  "Nova conversa iniciada.",
	"tui.tips.title":   "Dicas para começar:",
	"tui.tips.ask":     "  • Faça uma pergunta sobre qualquer matéria",
	"tui.tips.new":     "  • Ctrl+N começa uma conversa nova",
	"tui.tips.history": "  • Setas para cima e para baixo repetem perguntas anteriores",
	"tui.tips.quit":    "  • Esc ou Ctrl+C para sair",
}
