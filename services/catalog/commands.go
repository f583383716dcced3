package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tablefare/cateringbackend/lib/myerrors"
	"github.com/tablefare/cateringbackend/lib/mylog"
	"github.com/tablefare/cateringbackend/services/catalog/catalogevents"
)

func (s *service) listMenuItems(c context.Context) ([]MenuItem, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all menu items")

	items, err := s.itemStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})

	return items, nil
}

func (s *service) getMenuItem(c context.Context, itemUID string) (MenuItem, error) {
	item, found, err := s.itemStore.Get(c, itemUID)
	if err != nil {
		return MenuItem{}, myerrors.NewInternalError(err)
	}
	if !found {
		return MenuItem{}, myerrors.NewNotFoundError(fmt.Errorf("menu item with uid %s not found", itemUID))
	}

	return item, nil
}

func (s *service) upsertMenuItem(c context.Context, item MenuItem) (MenuItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return MenuItem{}, myerrors.NewInvalidInputErrorf("menu item name is required")
	}
	if item.Price < 0 {
		return MenuItem{}, myerrors.NewInvalidInputErrorf("menu item price must not be negative")
	}

	now := s.nower.Now()
	operation := "updated"

	if item.UID == "" {
		item.UID = s.uuider.Create()
		item.CreatedAt = now
		operation = "created"
	} else {
		item.LastModified = &now
	}

	s.logger.Log(c, item.UID, mylog.SeverityInfo, "Storing menu item %s (%s)", item.UID, operation)

	err := s.itemStore.RunInTransaction(c, func(c context.Context) error {
		err := s.itemStore.Put(c, item.UID, item)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, catalogevents.TopicName, catalogevents.MenuItemChanged{
			ItemUID:     item.UID,
			Name:        item.Name,
			Operation:   operation,
			IsAvailable: item.IsAvailable,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return MenuItem{}, err
	}

	return item, nil
}

func (s *service) deleteMenuItem(c context.Context, itemUID string) error {
	s.logger.Log(c, itemUID, mylog.SeverityInfo, "Deleting menu item %s", itemUID)

	return s.itemStore.RunInTransaction(c, func(c context.Context) error {
		item, found, err := s.itemStore.Get(c, itemUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("menu item with uid %s not found", itemUID))
		}

		err = s.itemStore.Delete(c, itemUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, catalogevents.TopicName, catalogevents.MenuItemChanged{
			ItemUID:   item.UID,
			Name:      item.Name,
			Operation: "deleted",
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
}

func (s *service) listModifiers(c context.Context) ([]Modifier, error) {
	modifiers, err := s.modifierStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(modifiers, func(i, j int) bool {
		if modifiers[i].GroupName != modifiers[j].GroupName {
			return modifiers[i].GroupName < modifiers[j].GroupName
		}
		return modifiers[i].Name < modifiers[j].Name
	})

	return modifiers, nil
}

func (s *service) upsertModifier(c context.Context, modifier Modifier) (Modifier, error) {
	if strings.TrimSpace(modifier.Name) == "" {
		return Modifier{}, myerrors.NewInvalidInputErrorf("modifier name is required")
	}

	now := s.nower.Now()
	operation := "updated"

	if modifier.UID == "" {
		modifier.UID = s.uuider.Create()
		modifier.CreatedAt = now
		operation = "created"
	} else {
		modifier.LastModified = &now
	}

	err := s.modifierStore.RunInTransaction(c, func(c context.Context) error {
		err := s.modifierStore.Put(c, modifier.UID, modifier)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, catalogevents.TopicName, catalogevents.ModifierChanged{
			ModifierUID: modifier.UID,
			Name:        modifier.Name,
			Operation:   operation,
			IsAvailable: modifier.IsAvailable,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Modifier{}, err
	}

	return modifier, nil
}

func (s *service) deleteModifier(c context.Context, modifierUID string) error {
	return s.modifierStore.RunInTransaction(c, func(c context.Context) error {
		modifier, found, err := s.modifierStore.Get(c, modifierUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("modifier with uid %s not found", modifierUID))
		}

		err = s.modifierStore.Delete(c, modifierUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, catalogevents.TopicName, catalogevents.ModifierChanged{
			ModifierUID: modifier.UID,
			Name:        modifier.Name,
			Operation:   "deleted",
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
}
