// Code generated by ent, DO NOT EDIT.

package ent

import (
	"backforge/internal/gateway/ent/artifact"
	"backforge/internal/gateway/ent/chatmessage"
	"backforge/internal/gateway/ent/project"
	"backforge/internal/gateway/ent/schema"
	"backforge/internal/gateway/ent/stage"
	"time"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	artifactFields := schema.Artifact{}.Fields()
	_ = artifactFields
	// artifactDescStageID is the schema descriptor for stage_id field.
	artifactDescStageID := artifactFields[1].Descriptor()
	// artifact.StageIDValidator is a validator for the "stage_id" field. It is called by the builders before save.
	artifact.StageIDValidator = artifactDescStageID.Validators[0].(func(string) error)
	// artifactDescName is the schema descriptor for name field.
	artifactDescName := artifactFields[2].Descriptor()
	// artifact.NameValidator is a validator for the "name" field. It is called by the builders before save.
	artifact.NameValidator = artifactDescName.Validators[0].(func(string) error)
	// artifactDescContent is the schema descriptor for content field.
	artifactDescContent := artifactFields[3].Descriptor()
	// artifact.DefaultContent holds the default value on creation for the content field.
	artifact.DefaultContent = artifactDescContent.Default.(string)
	// artifactDescType is the schema descriptor for type field.
	artifactDescType := artifactFields[4].Descriptor()
	// artifact.DefaultType holds the default value on creation for the type field.
	artifact.DefaultType = artifactDescType.Default.(string)
	// artifactDescLanguage is the schema descriptor for language field.
	artifactDescLanguage := artifactFields[5].Descriptor()
	// artifact.DefaultLanguage holds the default value on creation for the language field.
	artifact.DefaultLanguage = artifactDescLanguage.Default.(string)
	// artifactDescCreatedAt is the schema descriptor for created_at field.
	artifactDescCreatedAt := artifactFields[6].Descriptor()
	// artifact.DefaultCreatedAt holds the default value on creation for the created_at field.
	artifact.DefaultCreatedAt = artifactDescCreatedAt.Default.(func() time.Time)
	// artifactDescID is the schema descriptor for id field.
	artifactDescID := artifactFields[0].Descriptor()
	// artifact.DefaultID holds the default value on creation for the id field.
	artifact.DefaultID = artifactDescID.Default.(func() string)
	chatmessageFields := schema.ChatMessage{}.Fields()
	_ = chatmessageFields
	// chatmessageDescProjectID is the schema descriptor for project_id field.
	chatmessageDescProjectID := chatmessageFields[1].Descriptor()
	// chatmessage.ProjectIDValidator is a validator for the "project_id" field. It is called by the builders before save.
	chatmessage.ProjectIDValidator = chatmessageDescProjectID.Validators[0].(func(string) error)
	// chatmessageDescContent is the schema descriptor for content field.
	chatmessageDescContent := chatmessageFields[3].Descriptor()
	// chatmessage.DefaultContent holds the default value on creation for the content field.
	chatmessage.DefaultContent = chatmessageDescContent.Default.(string)
	// chatmessageDescStageType is the schema descriptor for stage_type field.
	chatmessageDescStageType := chatmessageFields[4].Descriptor()
	// chatmessage.DefaultStageType holds the default value on creation for the stage_type field.
	chatmessage.DefaultStageType = chatmessageDescStageType.Default.(string)
	// chatmessageDescCreatedAt is the schema descriptor for created_at field.
	chatmessageDescCreatedAt := chatmessageFields[5].Descriptor()
	// chatmessage.DefaultCreatedAt holds the default value on creation for the created_at field.
	chatmessage.DefaultCreatedAt = chatmessageDescCreatedAt.Default.(func() time.Time)
	// chatmessageDescID is the schema descriptor for id field.
	chatmessageDescID := chatmessageFields[0].Descriptor()
	// chatmessage.DefaultID holds the default value on creation for the id field.
	chatmessage.DefaultID = chatmessageDescID.Default.(func() string)
	projectFields := schema.Project{}.Fields()
	_ = projectFields
	// projectDescName is the schema descriptor for name field.
	projectDescName := projectFields[1].Descriptor()
	// project.NameValidator is a validator for the "name" field. It is called by the builders before save.
	project.NameValidator = projectDescName.Validators[0].(func(string) error)
	// projectDescPrompt is the schema descriptor for prompt field.
	projectDescPrompt := projectFields[2].Descriptor()
	// project.DefaultPrompt holds the default value on creation for the prompt field.
	project.DefaultPrompt = projectDescPrompt.Default.(string)
	// projectDescStatus is the schema descriptor for status field.
	projectDescStatus := projectFields[3].Descriptor()
	// project.DefaultStatus holds the default value on creation for the status field.
	project.DefaultStatus = projectDescStatus.Default.(string)
	// projectDescCreatedAt is the schema descriptor for created_at field.
	projectDescCreatedAt := projectFields[4].Descriptor()
	// project.DefaultCreatedAt holds the default value on creation for the created_at field.
	project.DefaultCreatedAt = projectDescCreatedAt.Default.(func() time.Time)
	// projectDescUpdatedAt is the schema descriptor for updated_at field.
	projectDescUpdatedAt := projectFields[5].Descriptor()
	// project.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	project.DefaultUpdatedAt = projectDescUpdatedAt.Default.(func() time.Time)
	// project.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	project.UpdateDefaultUpdatedAt = projectDescUpdatedAt.UpdateDefault.(func() time.Time)
	// projectDescID is the schema descriptor for id field.
	projectDescID := projectFields[0].Descriptor()
	// project.DefaultID holds the default value on creation for the id field.
	project.DefaultID = projectDescID.Default.(func() string)
	stageFields := schema.Stage{}.Fields()
	_ = stageFields
	// stageDescProjectID is the schema descriptor for project_id field.
	stageDescProjectID := stageFields[1].Descriptor()
	// stage.ProjectIDValidator is a validator for the "project_id" field. It is called by the builders before save.
	stage.ProjectIDValidator = stageDescProjectID.Validators[0].(func(string) error)
	// stageDescName is the schema descriptor for name field.
	stageDescName := stageFields[4].Descriptor()
	// stage.DefaultName holds the default value on creation for the name field.
	stage.DefaultName = stageDescName.Default.(string)
	// stageDescID is the schema descriptor for id field.
	stageDescID := stageFields[0].Descriptor()
	// stage.DefaultID holds the default value on creation for the id field.
	stage.DefaultID = stageDescID.Default.(func() string)
}
