package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/okian/orgpulse/internal/domain/model"
)

// field lists the gjson paths that may hold a value, canonical name first.
type field struct {
	name  string
	paths []string
}

func f(name string, aliases ...string) field {
	return field{name: name, paths: append([]string{name}, aliases...)}
}

//nolint:gochecknoglobals // alias tables
var (
	sectorID          = f("id", "sector_id", "sectorId", "setor_id", "setorId")
	sectorName        = f("name", "nome", "sector_name", "nome_setor")
	sectorDescription = f("description", "descricao", "desc")
	sectorActive      = f("active", "ativo", "is_active", "isActive")
	sectorResponsible = f("responsible_id", "responsibleId", "responsavel_id", "responsavelId",
		"responsible.id", "responsavel.id", "lider_id")

	teamID     = f("id", "team_id", "teamId", "time_id", "timeId")
	teamName   = f("name", "nome", "team_name", "nome_time")
	teamSector = f("sector_id", "sectorId", "setor_id", "setorId", "sector.id", "setor.id")
	teamActive = f("active", "ativo", "is_active", "isActive")

	employeeID        = f("id", "employee_id", "employeeId", "colaborador_id", "colaboradorId")
	employeeFirstName = f("first_name", "firstName", "nome", "name")
	employeeLastName  = f("last_name", "lastName", "sobrenome", "surname")
	employeeEmail     = f("email", "e_mail", "mail")
	employeeTeam      = f("team_id", "teamId", "time_id", "timeId", "equipe_id", "equipeId",
		"team.id", "time.id", "equipe.id")
	employeeCreated = f("created_at", "createdAt", "data_criacao", "dataCriacao",
		"data_admissao", "dataAdmissao", "admission_date")
	employeeRole = f("role", "cargo", "funcao", "tipo")

	competencyID       = f("id", "competency_id", "competencyId", "competencia_id", "competenciaId")
	competencyName     = f("name", "nome")
	competencyCategory = f("category", "categoria", "type", "tipo")

	assignmentCompetency = f("competency_id", "competencyId", "competencia_id", "competenciaId",
		"competency.id", "competencia.id")
	assignmentName  = f("name", "nome", "competency.name", "competencia.nome", "competencia")
	assignmentLevel = f("level", "nivel", "proficiency", "proficiencia",
		"nivel_proficiencia", "nivelProficiencia")
	assignmentOrder = f("order", "ordem", "display_order", "ordem_exibicao")
)

// timeLayouts are tried in order for string timestamps.
var timeLayouts = []string{ //nolint:gochecknoglobals // read-only lookup table
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// unixMillisThreshold separates unix seconds from unix milliseconds.
const unixMillisThreshold = 1e12

// lookup returns the first non-null value among the field's paths.
func lookup(raw gjson.Result, fd field) (gjson.Result, bool) {
	for _, p := range fd.paths {
		if v := raw.Get(p); v.Exists() && v.Type != gjson.Null {
			return v, true
		}
	}
	return gjson.Result{}, false
}

// warnings accumulates decode warnings for one record.
type warnings struct {
	entity string
	list   []string
}

func (w *warnings) add(name, reason string) {
	w.list = append(w.list, w.entity+"."+name+": "+reason)
}

func (w *warnings) id(raw gjson.Result, fd field) int64 {
	v, ok := lookup(raw, fd)
	if !ok {
		w.add(fd.name, "missing, defaulted to 0")
		return 0
	}
	return w.coerceID(fd.name, v)
}

func (w *warnings) optionalID(raw gjson.Result, fd field) int64 {
	v, ok := lookup(raw, fd)
	if !ok {
		return 0
	}
	return w.coerceID(fd.name, v)
}

// coerceID accepts integral numbers and numeric strings.
func (w *warnings) coerceID(name string, v gjson.Result) int64 {
	switch v.Type {
	case gjson.Number:
		if v.Num != math.Trunc(v.Num) {
			w.add(name, "not an integer, truncated")
		}
		return v.Int()
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if fl, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(fl) && !math.IsInf(fl, 0) {
			w.add(name, "not an integer, truncated")
			return int64(fl)
		}
	}
	w.add(name, "not numeric, defaulted to 0")
	return 0
}

func (w *warnings) str(raw gjson.Result, fd field, required bool) string {
	v, ok := lookup(raw, fd)
	if !ok {
		if required {
			w.add(fd.name, "missing, defaulted to empty")
		}
		return ""
	}
	if v.Type == gjson.JSON {
		w.add(fd.name, "not a scalar, defaulted to empty")
		return ""
	}
	return strings.TrimSpace(v.String())
}

func (w *warnings) boolean(raw gjson.Result, fd field) bool {
	v, ok := lookup(raw, fd)
	if !ok {
		return true
	}
	switch v.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		switch Fold(v.Str) {
		case "true", "1", "sim", "yes", "ativo", "active":
			return true
		case "false", "0", "nao", "no", "inativo", "inactive":
			return false
		}
	}
	w.add(fd.name, "not a boolean, defaulted to true")
	return true
}

func (w *warnings) timestamp(raw gjson.Result, fd field, loc *time.Location) time.Time {
	v, ok := lookup(raw, fd)
	if !ok {
		w.add(fd.name, "missing, left unset")
		return time.Time{}
	}
	if v.Type == gjson.Number {
		return fromUnix(v.Int())
	}
	s := strings.TrimSpace(v.String())
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromUnix(n)
	}
	w.add(fd.name, "unparseable, left unset")
	return time.Time{}
}

func fromUnix(n int64) time.Time {
	if n >= unixMillisThreshold {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

func (w *warnings) category(raw gjson.Result, fd field) model.Category {
	v, ok := lookup(raw, fd)
	if !ok {
		w.add(fd.name, "missing, defaulted to technical")
		return model.CategoryTechnical
	}
	switch Fold(v.String()) {
	case "technical", "tecnica", "tecnico", "hard":
		return model.CategoryTechnical
	case "behavioral", "behavioural", "comportamental", "soft":
		return model.CategoryBehavioral
	}
	w.add(fd.name, "unknown, defaulted to technical")
	return model.CategoryTechnical
}

func (w *warnings) byName(name string, idx *Index) int64 {
	if strings.TrimSpace(name) == "" {
		w.add("competency_id", "missing, defaulted to 0")
		return 0
	}
	id, ok := idx.Resolve(name)
	if !ok {
		w.add("competency_id", "name "+strconv.Quote(name)+" not found, defaulted to 0")
		return 0
	}
	return id
}
