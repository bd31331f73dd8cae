package match

// Action identifiers used by the synonym and implication tables. Declaring
// them as constants keeps the fixed tables typo-proof at build time.
const (
	ActionRead    = "read"
	ActionView    = "view"
	ActionAccess  = "access"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionWrite   = "write"
	ActionEdit    = "edit"
	ActionDelete  = "delete"
	ActionRemove  = "remove"
	ActionManage  = "manage"
	ActionAdmin   = "admin"
	ActionControl = "control"
	ActionAssign  = "assign"
	ActionApprove = "approve"
	ActionExport  = "export"
	ActionImport  = "import"
	ActionShare   = "share"
	ActionMove    = "move"
)

// synonymGroups lists actions that are interchangeable spellings of the same
// operation. Membership is symmetric within a group.
var synonymGroups = [][]string{
	{ActionRead, ActionView, ActionAccess},
	{ActionUpdate, ActionWrite, ActionEdit},
	{ActionDelete, ActionRemove},
}

// actionSynonyms maps an action to the set of actions it is synonymous with,
// built from synonymGroups at init.
var actionSynonyms = buildSynonyms()

func buildSynonyms() map[string]map[string]bool {
	syn := make(map[string]map[string]bool)
	for _, group := range synonymGroups {
		for _, a := range group {
			if syn[a] == nil {
				syn[a] = make(map[string]bool)
			}
			for _, b := range group {
				if a != b {
					syn[a][b] = true
				}
			}
		}
	}
	return syn
}

// managedActions is the full set of concrete operations implied by holding a
// supervisory action.
var managedActions = []string{
	ActionRead, ActionView, ActionCreate, ActionUpdate, ActionDelete,
	ActionAssign, ActionApprove, ActionExport, ActionImport, ActionShare, ActionMove,
}

// actionImplications maps a held action to the set of requested actions it
// implies. Unlike synonyms, implication is one-directional: manage implies
// delete, delete does not imply manage.
var actionImplications = map[string]map[string]bool{
	ActionManage:  setOf(managedActions...),
	ActionAdmin:   setOf(managedActions...),
	ActionControl: setOf(managedActions...),
	ActionWrite:   setOf(ActionCreate, ActionUpdate),
	ActionView:    setOf(ActionRead),
}

func setOf(actions ...string) map[string]bool {
	set := make(map[string]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}
	return set
}

// actionCompatible reports whether a held action satisfies a requested one:
// exact match, a synonym, or an implication of the held action.
func actionCompatible(held, requested string) bool {
	if held == requested {
		return true
	}
	if actionSynonyms[held][requested] {
		return true
	}
	return actionImplications[held][requested]
}

// shortFormSatisfiedBy reports whether a bare short-form verb is satisfied by
// the given action segment of a full-form token. The rule set is fixed:
// "read", "write" and "delete" accept the small families below, any other
// short form requires the exact same action.
func shortFormSatisfiedBy(short, action string) bool {
	switch short {
	case ActionRead:
		return action == ActionRead || action == ActionView || action == ActionManage
	case ActionWrite:
		return action == ActionCreate || action == ActionUpdate || action == ActionWrite || action == ActionManage
	case ActionDelete:
		return action == ActionDelete || action == ActionManage
	default:
		return action == short
	}
}
