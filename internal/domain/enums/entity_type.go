package enums

// EntityType identifies the kind of platform entity a report or action targets.
type EntityType string

const (
	EntityUser         EntityType = "user"
	EntityRescue       EntityType = "rescue"
	EntityPet          EntityType = "pet"
	EntityApplication  EntityType = "application"
	EntityMessage      EntityType = "message"
	EntityConversation EntityType = "conversation"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityUser, EntityRescue, EntityPet, EntityApplication,
		EntityMessage, EntityConversation:
		return true
	}
	return false
}
