package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/rendercost/engine/cost"
)

// Avatar wears root objects on named attachment points.
type Avatar struct {
	id          uuid.UUID
	name        string
	self        bool
	rezStatus   string
	reported    uint32
	attachments []cost.AttachmentPoint
}

func (a *Avatar) ID() uuid.UUID                            { return a.id }
func (a *Avatar) Name() string                             { return a.name }
func (a *Avatar) IsSelf() bool                             { return a.self }
func (a *Avatar) RezStatus() string                        { return a.rezStatus }
func (a *Avatar) ReportedComplexity() uint32               { return a.reported }
func (a *Avatar) AttachmentPoints() []cost.AttachmentPoint { return a.attachments }
