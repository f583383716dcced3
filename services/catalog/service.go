package catalog

import (
	"context"
	"fmt"

	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/lib/mypublisher"
	"github.com/tablefare/cateringbackend/lib/mystore"
	"github.com/tablefare/cateringbackend/lib/mytime"
	"github.com/tablefare/cateringbackend/lib/myuuid"
	"github.com/tablefare/cateringbackend/services/catalog/catalogevents"
)

type service struct {
	itemStore     mystore.Store[MenuItem]
	modifierStore mystore.Store[Modifier]
	publisher     mypublisher.Publisher
	nower         mytime.Nower
	uuider        myuuid.UUIDer
	logger        mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(itemStore mystore.Store[MenuItem], modifierStore mystore.Store[Modifier], nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		itemStore:     itemStore,
		modifierStore: modifierStore,
		publisher:     pub,
		nower:         nower,
		uuider:        uuider,
		logger:        logger,
	}
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, catalogevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", catalogevents.TopicName, err)
	}

	return nil
}

// GetMenuItemsByIDs batch-fetches the menu items with the given uids.
// Items that do not exist are simply absent from the result.
func (s *service) GetMenuItemsByIDs(c context.Context, uids []string) ([]MenuItem, error) {
	if len(uids) == 0 {
		return []MenuItem{}, nil
	}

	wanted := map[string]bool{}
	for _, uid := range uids {
		wanted[uid] = true
	}

	all, err := s.itemStore.List(c)
	if err != nil {
		return nil, err
	}

	items := []MenuItem{}
	for _, item := range all {
		if wanted[item.UID] {
			items = append(items, item)
		}
	}

	return items, nil
}

// GetModifiersByIDs batch-fetches the modifiers with the given uids.
func (s *service) GetModifiersByIDs(c context.Context, uids []string) ([]Modifier, error) {
	if len(uids) == 0 {
		return []Modifier{}, nil
	}

	wanted := map[string]bool{}
	for _, uid := range uids {
		wanted[uid] = true
	}

	all, err := s.modifierStore.List(c)
	if err != nil {
		return nil, err
	}

	modifiers := []Modifier{}
	for _, modifier := range all {
		if wanted[modifier.UID] {
			modifiers = append(modifiers, modifier)
		}
	}

	return modifiers, nil
}
