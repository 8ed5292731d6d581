package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-connectorform/cmd/connectorform/commands"
	"github.com/goliatone/go-connectorform/pkg/renderers/tui"
)

func execute(t *testing.T, deps commands.Deps, args ...string) (string, error) {
	t.Helper()

	cmd := commands.NewRootCmd(context.Background(), deps)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, commands.Deps{Version: "1.2.3"}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "connectorform 1.2.3")
}

func TestRenderCmdWritesHTML(t *testing.T) {
	out, err := execute(t, commands.Deps{},
		"render", "--metadata", "testdata/metadata.json", "--values", "testdata/values.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, `name="ClientId"`)
	assert.Contains(t, out, `value="abc"`)
	assert.Contains(t, out, "<style>")
	assert.NotContains(t, out, "internalFlag")
	assert.Contains(t, out, `data-parent="IsBasicAuthEnabled"`)
	assert.Contains(t, out, "<script>")
}

func TestRenderCmdTemplateEngines(t *testing.T) {
	args := []string{"render", "-m", "testdata/metadata.json", "-v", "testdata/values.yaml"}

	builtin, err := execute(t, commands.Deps{}, args...)
	require.NoError(t, err)
	library, err := execute(t, commands.Deps{}, append(args, "--engine", "go-template")...)
	require.NoError(t, err)
	assert.Equal(t, builtin, library)

	_, err = execute(t, commands.Deps{}, append(args, "--engine", "jinja")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown template engine "jinja"`)
}

func TestRenderCmdWritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form.html")

	out, err := execute(t, commands.Deps{},
		"render", "-m", "testdata/metadata.json", "-v", "testdata/values.yaml", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Form written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `name="ClientSecret"`)
}

func TestRenderCmdRunsTerminalForm(t *testing.T) {
	driver := &scriptedDriver{answers: []any{"xyz", "", true, "corp", "scope=openid"}}

	out, err := execute(t, commands.Deps{PromptDriver: driver},
		"render", "-m", "testdata/metadata.json", "-v", "testdata/values.yaml", "--renderer", tui.Name)
	require.NoError(t, err)

	assert.Contains(t, out, `{"key":"ClientId","value":"xyz"}`)
	assert.Contains(t, out, `{"key":"IsBasicAuthEnabled","value":true}`)
	assert.Contains(t, out, `{"key":"BasicAuthRealm","value":"corp"}`)
	assert.Contains(t, out, `"authenticatorId":"auth-1"`)
	assert.Empty(t, driver.answers)
}

func TestFieldsCmd(t *testing.T) {
	out, err := execute(t, commands.Deps{},
		"fields", "-m", "testdata/metadata.json", "-v", "testdata/values.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "ClientId")
	assert.Contains(t, out, "required")
	assert.Contains(t, out, "scope=openid")
	assert.NotContains(t, out, "BasicAuthRealm")

	out, err = execute(t, commands.Deps{},
		"fields", "-m", "testdata/metadata.json", "-v", "testdata/values.yaml", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "  BasicAuthRealm")
	assert.Contains(t, out, "hidden")
}

func TestFieldsCmdRequiresValues(t *testing.T) {
	_, err := execute(t, commands.Deps{}, "fields", "-m", "testdata/metadata.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "form is not mounted")
}

func TestSubmitCmdPrintsPayload(t *testing.T) {
	out, err := execute(t, commands.Deps{},
		"submit", "-m", "testdata/metadata.json", "-v", "testdata/values.yaml", "--form", "testdata/form.json")
	require.NoError(t, err)

	assert.Contains(t, out, `"authenticatorId": "auth-1"`)
	assert.Contains(t, out, `"value": "xyz"`)
	assert.Contains(t, out, `"value": true`)
	assert.Contains(t, out, `"key": "prompt"`)
}

func TestSubmitCmdStrictRejectsMalformedCustomProperties(t *testing.T) {
	args := []string{"submit", "-m", "testdata/metadata.json", "-v", "testdata/values.yaml", "--form", "testdata/form_invalid.yaml"}

	out, err := execute(t, commands.Deps{}, args...)
	require.NoError(t, err)
	assert.Contains(t, out, `"key": "broken"`)

	_, err = execute(t, commands.Deps{}, append(args, "--strict")...)
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "submit", oopsErr.Domain())
}

func TestRootCmdReadsConfigFile(t *testing.T) {
	out, err := execute(t, commands.Deps{}, "render", "--config", "testdata/config.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `data-theme-variant="dark"`)
	assert.Contains(t, out, "--brand: #654321")
}

func TestRootCmdErrors(t *testing.T) {
	_, err := execute(t, commands.Deps{}, "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata document is required")

	_, err = execute(t, commands.Deps{}, "render", "-m", "testdata/metadata.json", "--log-level", "loud")
	require.Error(t, err)

	_, err = execute(t, commands.Deps{}, "render", "--config", "testdata/missing.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// scriptedDriver answers prompts in order. Strings answer Input and
// Password, booleans answer Confirm and ints answer Select.
type scriptedDriver struct {
	answers []any
}

func (d *scriptedDriver) next() (any, error) {
	if len(d.answers) == 0 {
		return nil, errors.New("no answer scripted")
	}
	answer := d.answers[0]
	d.answers = d.answers[1:]
	return answer, nil
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	answer, err := d.next()
	if err != nil {
		return "", err
	}
	s, _ := answer.(string)
	return s, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	answer, err := d.next()
	if err != nil {
		return false, err
	}
	b, _ := answer.(bool)
	return b, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	answer, err := d.next()
	if err != nil {
		return 0, err
	}
	i, _ := answer.(int)
	return i, nil
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

func TestLintCmd(t *testing.T) {
	out, err := execute(t, commands.Deps{}, "lint", "testdata/metadata.json")
	require.NoError(t, err)
	assert.Contains(t, out, "1 document(s) ok")

	out, err = execute(t, commands.Deps{}, "lint", "testdata/invalid.metadata.yaml", "testdata/invalid.openapi.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 7 violation(s)")
	for _, want := range []string{
		`properties > ClientId -> unknown property type "STRNG"`,
		`properties > Mode -> sub-properties need a BOOLEAN, CHECKBOX or RADIO parent, found "STRING"`,
		`properties > Mode -> invalid regex`,
		`properties > Mode > ClientId -> duplicate key, first declared at properties > ClientId`,
		`components > schemas > Broken > properties > enabled -> x-confidential must be a boolean (got string)`,
		`components > schemas > Broken > properties > enabled -> x-sub-properties names unknown property "missing"`,
		`components > schemas > Broken > properties > mode -> unknown x-property-type SLIDER`,
	} {
		assert.Contains(t, out, want)
	}
}
