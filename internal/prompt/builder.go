package prompt

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chris/lorekeeper/config"
	"github.com/chris/lorekeeper/internal/character"
	"github.com/chris/lorekeeper/internal/memory"
	"github.com/chris/lorekeeper/internal/preset"
	"github.com/chris/lorekeeper/internal/skills"
	"github.com/chris/lorekeeper/internal/storage"
	"github.com/chris/lorekeeper/internal/worldinfo"
)

// bootstrapFiles are workspace files injected verbatim into the system
// prompt, in this order, when present.
var bootstrapFiles = []string{"AGENTS.md", "SOUL.md", "USER.md", "TOOLS.md", "IDENTITY.md"}

// Builder assembles the system prompt from the workspace and stored
// persona configuration. Every section degrades to empty on failure so a
// broken import never takes the prompt down with it.
type Builder struct {
	cfg    *config.Config
	store  *storage.Store
	mem    *memory.Store
	loader *skills.Loader
	log    *log.Logger

	now func() time.Time
}

func NewBuilder(cfg *config.Config, store *storage.Store, mem *memory.Store, logger *log.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		store:  store,
		mem:    mem,
		loader: skills.NewLoader(cfg.Workspace),
		log:    logger,
		now:    time.Now,
	}
}

// Build assembles the full system prompt. The context string (typically
// the latest user message) drives world info activation and memory
// retrieval.
func (b *Builder) Build(context string) string {
	active := b.store.ActiveCharacter()

	var sections []string
	sections = append(sections, b.identitySection(active))
	sections = append(sections, b.bootstrapSection())
	sections = append(sections, b.personaSection(active, context))
	sections = append(sections, b.memorySection(active, context))
	sections = append(sections, b.skillsSections()...)

	var kept []string
	for _, s := range sections {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n\n")
}

func (b *Builder) agentName(active *storage.StoredCharacter) string {
	if active != nil {
		return active.Name
	}
	return b.cfg.AgentName
}

func (b *Builder) identitySection(active *storage.StoredCharacter) string {
	now := b.now()
	zone, _ := now.Zone()

	var sb strings.Builder
	fmt.Fprintf(&sb, "# You are %s\n\n", b.agentName(active))
	fmt.Fprintf(&sb, "Current time: %s %s\n", now.Format("2006-01-02 15:04:05"), zone)
	fmt.Fprintf(&sb, "Runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&sb, "Workspace: %s\n\n", b.cfg.Workspace)
	sb.WriteString("Long-term memories relevant to the conversation are included below.\n")
	sb.WriteString("Skills live under the workspace skills/ directory; read a skill's file before using it.")
	return sb.String()
}

// bootstrapSection injects the workspace bootstrap files. A missing file
// is normal and skipped silently.
func (b *Builder) bootstrapSection() string {
	var sb strings.Builder
	for _, name := range bootstrapFiles {
		data, err := os.ReadFile(filepath.Join(b.cfg.Workspace, name))
		if err != nil {
			continue
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n%s\n\n", name, content)
	}
	return strings.TrimSpace(sb.String())
}

func (b *Builder) personaSection(active *storage.StoredCharacter, context string) string {
	var parts []string

	if active != nil {
		if block := character.BuildPrompt(&active.Data, character.PromptOptions{}); block != "" {
			parts = append(parts, block)
		}
	}

	if block := b.worldInfoBlock(active, context); block != "" {
		parts = append(parts, block)
	}

	if block := b.presetBlock(active); block != "" {
		parts = append(parts, block)
	}

	return strings.Join(parts, "\n\n")
}

// worldInfoBlock activates the active character's embedded lore and each
// enabled stored book independently, so every book gets its own entry cap
// and its entries stay grouped in the output.
func (b *Builder) worldInfoBlock(active *storage.StoredCharacter, context string) string {
	cfg := worldinfo.DefaultConfig()
	var activated []worldinfo.Entry

	if active != nil && len(active.Data.Book) > 0 {
		embedded := &worldinfo.Book{}
		for i, be := range active.Data.Book {
			embedded.Entries = append(embedded.Entries, worldinfo.Entry{
				UID:         i,
				Keys:        be.Keys,
				Comment:     be.Name,
				Content:     be.Content,
				Disabled:    !be.Enabled,
				Probability: 100,
				Order:       be.InsertionOrder,
			})
		}
		activated = append(activated, worldinfo.Activate(embedded, context, cfg)...)
	}
	for _, book := range b.store.EnabledWorldInfo() {
		activated = append(activated, worldinfo.Activate(&worldinfo.Book{Entries: book.Entries}, context, cfg)...)
	}

	return worldinfo.BuildPrompt(activated)
}

func (b *Builder) presetBlock(active *storage.StoredCharacter) string {
	stored := b.store.ActivePreset()
	if stored == nil {
		return ""
	}
	block := preset.BuildPrompt(stored.Data.EnabledPrompts(), nil)
	if block == "" {
		return ""
	}

	macros := preset.DefaultMacros()
	macros.User = b.cfg.UserName
	macros.Char = b.agentName(active)
	return preset.ApplyMacros(block, macros)
}

func (b *Builder) memorySection(active *storage.StoredCharacter, context string) string {
	charID, charName := "default", b.cfg.AgentName
	if active != nil {
		charID, charName = active.ID, active.Name
	}

	book, err := b.mem.GetOrCreateBook(charID, charName, "")
	if err != nil {
		b.log.Warn("loading memory book", "character", charName, "err", err)
		return ""
	}
	memories := b.mem.RetrieveMemories(book.ID, context, memory.RetrieveOptions{})
	return memory.BuildPrompt(memories)
}

func (b *Builder) skillsSections() []string {
	all := b.loader.List()
	if len(all) == 0 {
		return nil
	}

	var sections []string
	if rendered := skills.Render(b.loader.AlwaysSkills()); rendered != "" {
		sections = append(sections, "## Active Skills\n"+rendered)
	}
	if summary := skills.Summary(all); summary != "" {
		sections = append(sections, "## Available Skills\n"+summary)
	}
	return sections
}

// BuildMessages appends the current user turn to the history. Media paths
// become base64 data-URL image parts; unreadable or non-image files are
// skipped. The text part always comes last.
func (b *Builder) BuildMessages(history []Message, current string, mediaPaths []string) []Message {
	messages := append([]Message(nil), history...)

	var parts []ContentPart
	for _, path := range mediaPaths {
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if !strings.HasPrefix(mimeType, "image/") {
			b.log.Warn("skipping non-image attachment", "path", path)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			b.log.Warn("reading attachment", "path", path, "err", err)
			continue
		}
		parts = append(parts, ContentPart{
			Type:     "image_url",
			ImageURL: fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)),
		})
	}

	if len(parts) == 0 {
		return append(messages, Message{Role: "user", Content: current})
	}
	parts = append(parts, ContentPart{Type: "text", Text: current})
	return append(messages, Message{Role: "user", Parts: parts})
}
