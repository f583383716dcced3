package catalogevents

const (
	TopicName           = "catalog"
	menuItemChangedName = TopicName + ".menuItemChanged"
	modifierChangedName = TopicName + ".modifierChanged"
)

type MenuItemChanged struct {
	ItemUID     string
	Name        string
	Operation   string // created, updated, deleted
	IsAvailable bool
}

func (e MenuItemChanged) GetEventTypeName() string {
	return menuItemChangedName
}

func (e MenuItemChanged) GetAggregateName() string {
	return e.ItemUID
}

type ModifierChanged struct {
	ModifierUID string
	Name        string
	Operation   string
	IsAvailable bool
}

func (e ModifierChanged) GetEventTypeName() string {
	return modifierChangedName
}

func (e ModifierChanged) GetAggregateName() string {
	return e.ModifierUID
}
