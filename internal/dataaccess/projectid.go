package dataaccess

// ProjectIDField is the virtual identifier shared by both project variants.
// It is never stored.
const ProjectIDField = "projectId"

// ProjectIDResolver keeps projectId out of every write on a project variant and
// derives it on read from the variant's physical identifier.
type ProjectIDResolver struct {
	idFields map[Entity]string
}

func NewProjectIDResolver() *ProjectIDResolver {
	return &ProjectIDResolver{idFields: ProjectVariants()}
}

// IDField returns the physical identifier field for a project variant.
func (r *ProjectIDResolver) IDField(e Entity) (string, bool) {
	f, ok := r.idFields[e]
	return f, ok
}

// Intercept sanitizes write payloads; reads pass through.
func (r *ProjectIDResolver) Intercept(e Entity, op Operation) Operation {
	return r.SanitizeWritePayload(e, op)
}

// SanitizeWritePayload strips projectId from every payload op would write.
// Upserts are stripped on both the create and the update side. The input is not modified.
func (r *ProjectIDResolver) SanitizeWritePayload(e Entity, op Operation) Operation {
	if _, ok := r.idFields[e]; !ok {
		return op
	}
	switch o := op.(type) {
	case Create:
		o.Data = withoutProjectID(o.Data)
		return o
	case CreateMany:
		rows := make([]Data, len(o.Data))
		for i, d := range o.Data {
			rows[i] = withoutProjectID(d)
		}
		o.Data = rows
		return o
	case Update:
		o.Data = withoutProjectID(o.Data)
		return o
	case Upsert:
		o.Create = withoutProjectID(o.Create)
		o.Update = withoutProjectID(o.Update)
		return o
	}
	return op
}

// DeriveProjectID projects the variant's physical identifier onto projectId.
func (r *ProjectIDResolver) DeriveProjectID(e Entity, rec Record) (any, bool) {
	f, ok := r.idFields[e]
	if !ok {
		return nil, false
	}
	v, ok := rec[f]
	return v, ok
}

// Derived declares projectId for project variants, computed from the physical identifier.
func (r *ProjectIDResolver) Derived(e Entity) []DerivedField {
	f, ok := r.idFields[e]
	if !ok {
		return nil
	}
	return []DerivedField{{
		Field: ProjectIDField,
		Needs: []string{f},
		Compute: func(rec Record) any {
			return rec[f]
		},
	}}
}

func withoutProjectID(d Data) Data {
	if _, ok := d[ProjectIDField]; !ok {
		return d
	}
	out := d.Clone()
	delete(out, ProjectIDField)
	return out
}
