package tool

import (
	"fmt"
	"strings"

	"github.com/hupe1980/ginny/core"
)

// PreferenceToolName is the name the model uses for the preference memory tool.
const PreferenceToolName = "mem0_memory"

// Preference memory actions.
const (
	ActionRetrieve = "retrieve"
	ActionStore    = "store"
)

type preferenceArgs struct {
	Action  string `json:"action" enum:"retrieve,store" description:"retrieve stored preferences or store a new preference statement"`
	UserID  string `json:"user_id,omitempty" description:"user identifier; defaults to the current user"`
	Content string `json:"content,omitempty" description:"preference statement to store (action=store)"`
}

// NewPreferenceTool exposes a PreferenceStore to the model. The user_id
// argument defaults to the user of the invoking turn.
func NewPreferenceTool(store core.PreferenceStore) *FunctionTool {
	return NewFunctionToolFromStruct(
		PreferenceToolName,
		"Retrieve or store long-term outfit preferences of a user. Use the user's name as user_id once known.",
		preferenceArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			userID := stringArg(args, "user_id")
			if userID == "" {
				userID = toolCtx.UserID()
			}

			switch args["action"] {
			case ActionStore:
				content := stringArg(args, "content")
				if content == "" {
					return nil, NewToolError(PreferenceToolName, "content is required for action store", CodeValidation)
				}
				if err := store.Put(toolCtx.Context(), userID, content); err != nil {
					return nil, err
				}
				toolCtx.LogInfo("preference.stored", "user_id", userID)
				return fmt.Sprintf("stored preference for %s", userID), nil
			default:
				prefs, err := store.Get(toolCtx.Context(), userID)
				if err != nil {
					return nil, err
				}
				return FormatPreferences(userID, prefs), nil
			}
		},
	)
}

// FormatPreferences renders recalled statements for the model.
func FormatPreferences(userID string, prefs []string) string {
	if len(prefs) == 0 {
		return fmt.Sprintf("no stored preferences for %s", userID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "preferences for %s:", userID)
	for _, p := range prefs {
		b.WriteString("\n- ")
		b.WriteString(p)
	}
	return b.String()
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}
