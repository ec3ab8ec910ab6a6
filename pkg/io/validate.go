package io

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/corridor/pkg/errors"
)

// validate checks the struct tags of decoded documents. Field names in
// reports are the JSON names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs the tag validation on doc and adds one coded error per
// failed field to errs.
func checkStruct(doc any, errs *errors.List) {
	err := validate.Struct(doc)
	if err == nil {
		return
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add(errors.Wrap(errors.ErrCodeInternal, err, "validate document"))
		return
	}
	for _, fe := range fieldErrs {
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		errs.Add(errors.New(codeFor(fe), "%s: failed %s", path, rule(fe)))
	}
}

func codeFor(fe validator.FieldError) errors.Code {
	switch {
	case fe.Tag() == "unique":
		return errors.ErrCodeDuplicateID
	case fe.Field() == "quality":
		return errors.ErrCodeInvalidQuality
	case strings.Contains(fe.Namespace(), "options["):
		return errors.ErrCodeInvalidRestoration
	case fe.Field() == "probability":
		return errors.ErrCodeInvalidProbability
	}
	return errors.ErrCodeInvalidInput
}

func rule(fe validator.FieldError) string {
	if fe.Tag() == "unique" {
		return "unique id check"
	}
	if fe.Param() == "" {
		return fe.Tag() + " check"
	}
	return fmt.Sprintf("%s=%s check, got %v", fe.Tag(), fe.Param(), fe.Value())
}

// Validate checks an in-memory instance: qualities are non-negative,
// probabilities lie in [0, 1], option costs are non-negative, gains are
// positive, restored probabilities improve on their arc, and every effect
// refers to an element of the landscape. All violations are reported, in
// external ids; the returned error is an *errors.Error for a single
// violation and an *errors.List otherwise.
func Validate(in *Instance) error {
	var errs errors.List
	l, p := in.Landscape, in.Plan
	for _, u := range l.Nodes() {
		errs.Add(errors.ValidateQuality(in.NodeID(u), l.Quality(u)))
	}
	for _, a := range l.Arcs() {
		errs.Add(errors.ValidateProbability(in.ArcID(a), l.Probability(a)))
	}
	for _, o := range p.Options() {
		id := in.OptionID(o)
		errs.Add(errors.ValidateCost(id, p.Cost(o)))
		for _, u := range p.OptionNodes(o) {
			if !l.ValidNode(u) {
				errs.Add(errors.New(errors.ErrCodeDanglingReference, "option %d: unknown node %d", id, in.NodeID(u)))
				continue
			}
			gain, _ := p.QualityGain(o, u)
			errs.Add(errors.ValidateGain(id, in.NodeID(u), gain))
		}
		for _, a := range p.OptionArcs(o) {
			if !l.ValidArc(a) {
				errs.Add(errors.New(errors.ErrCodeDanglingReference, "option %d: unknown arc %d", id, in.ArcID(a)))
				continue
			}
			restored, _ := p.RestoredProbability(o, a)
			errs.Add(errors.ValidateRestoration(id, in.ArcID(a), l.Probability(a), restored))
		}
	}
	return errs.Err()
}
