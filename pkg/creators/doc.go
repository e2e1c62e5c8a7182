// Package creators bundles the wizard schemas and document templates of the
// creator features (challenges, content strategy, office breaks, plateau
// strategies, SMART goals, social content, campaign builder).
//
// Each feature is one schema file under schemas/ plus one pongo2 template
// under templates/ named after the schema id. Custom catalogs can be loaded
// from any fs.FS with LoadFS; the rules match the bundled ones: JSON is tried
// before YAML, empty files and duplicate ids are rejected, and every schema
// must pass model.Schema.Validate.
package creators
