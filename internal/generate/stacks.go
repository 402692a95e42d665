package generate

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/diagramlab/erd-codegen/internal/schema"
)

//go:embed templates
var templatesFS embed.FS

// Step is one LLM generation pass. Single-file steps strip fences and store
// the response at TargetPath; multi-file steps expect "=== FILE: path ==="
// markers and store every parsed file.
type Step struct {
	Name       string
	TargetPath string
	MultiFile  bool
	Prompt     func(p *Project) string
}

// Stack describes a target backend technology: how to seed a project from a
// schema and which generation steps to run, in order. Steps later in the
// list may reference files produced by earlier ones.
type Stack struct {
	Name       string
	NewProject func(s schema.Schema) *Project
	Steps      func(p *Project) []Step
}

// StackNames lists the supported target stacks.
func StackNames() []string {
	return []string{"springboot", "fastapi", "dotnet"}
}

// StackFor resolves a stack by case-insensitive name.
func StackFor(name string) (*Stack, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "springboot":
		return springbootStack(), nil
	case "fastapi":
		return fastapiStack(), nil
	case "dotnet":
		return dotnetStack(), nil
	default:
		return nil, fmt.Errorf("target stack %q is not supported (supported: %s)",
			name, strings.Join(StackNames(), ", "))
	}
}

// loadExamples reads all template files for one stack into a name-to-content
// map used as style references in prompts.
func loadExamples(stack string) map[string]string {
	dir := "templates/" + stack
	entries, err := templatesFS.ReadDir(dir)
	if err != nil {
		return map[string]string{}
	}
	examples := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := templatesFS.ReadFile(path.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		examples[e.Name()] = string(data)
	}
	return examples
}

// --- Spring Boot ---

func springbootStack() *Stack {
	return &Stack{
		Name: "springboot",
		NewProject: func(s schema.Schema) *Project {
			base := projectBaseName(s)
			artifactID := strings.ToLower(base) + "-service"
			basePackage := "com.example.generated." + strings.ReplaceAll(artifactID, "-", "")
			p := newProject(artifactID, basePackage, s, loadExamples("springboot"))

			// Static scaffold files come straight from the templates
			p.AddFile("pom.xml", strings.ReplaceAll(p.Example("example_pom.xml"), "demo-app", artifactID))
			p.AddFile("src/main/resources/application.properties",
				strings.ReplaceAll(p.Example("example_application.properties"), "GeneratedSpringApp", artifactID))
			p.AddFile("README.md", strings.ReplaceAll(p.Example("example_readme.md"), "GeneratedSpringApp", base+" API"))

			mainClass := base + "Application"
			mainContent := strings.ReplaceAll(p.Example("ExampleApplication.java"), "com.example.generated", basePackage)
			mainContent = strings.ReplaceAll(mainContent, "ExampleApplication", mainClass)
			p.AddFile(javaSrcRoot(p)+"/"+mainClass+".java", mainContent)
			return p
		},
		Steps: springbootSteps,
	}
}

func javaSrcRoot(p *Project) string {
	return "src/main/java/" + strings.ReplaceAll(p.BasePackage, ".", "/")
}

func springbootSteps(p *Project) []Step {
	var steps []Step
	root := javaSrcRoot(p)
	for _, entity := range p.Schema.Entities {
		entity := entity
		name := entity.Name
		steps = append(steps,
			Step{
				Name:       "Model for " + name,
				TargetPath: root + "/model/" + name + ".java",
				Prompt: func(p *Project) string {
					return fmt.Sprintf(`You are an expert Java developer creating JPA entities.
Based on the JSON schema for the entity '%s', generate the complete Java class content for `+"`%s/model/%s.java`"+`.

The class must be a JPA entity using Jakarta Persistence annotations.
- Use Lombok for boilerplate (@Data, @Builder, etc.).
- Define fields, @Id, @GeneratedValue, @Column, @ManyToOne, and @OneToMany relationships.
- For foreign keys, generate the relationship field annotated with @ManyToOne and @JoinColumn. Do not generate a separate primitive id field for it.

Entity Schema:
%s

Example Style (ExampleEntity.java):
%s

Generate ONLY the Java code for the %s.java file, starting with the package declaration.`,
						name, root, name, codeBlock("json", EntityJSON(entity)),
						codeBlock("java", p.Example("ExampleEntity.java")), name)
				},
			},
			Step{
				Name:       "Repository for " + name,
				TargetPath: root + "/repository/" + name + "Repository.java",
				Prompt: func(p *Project) string {
					return fmt.Sprintf(`Generate a Spring Data JPA Repository interface for the `+"`%s`"+` entity in package `+"`%s.repository`"+`.
File name: `+"`%s/repository/%sRepository.java`"+`.

The interface must extend JpaRepository and be annotated with @Repository.

--- Generated Entity Context ---
%s--- End Context ---

Example Style (ExampleRepository.java):
%s

Generate ONLY the Java code for %sRepository.java, starting with the package declaration.`,
						name, p.BasePackage, root, name,
						p.ContextFor(root+"/model/"+name+".java"),
						codeBlock("java", p.Example("ExampleRepository.java")), name)
				},
			},
			Step{
				Name:      "DTOs for " + name,
				MultiFile: true,
				Prompt: func(p *Project) string {
					return fmt.Sprintf(`You are an expert Java developer creating DTOs.
Generate three DTO Java classes for the entity '%s' in package `+"`%s.dto`"+`:
1. %sResponse.java: for API responses.
2. %sCreateRequest.java: for creation, with Jakarta validation annotations.
3. %sUpdateRequest.java: for updates, with optional fields.

Use Lombok. Map schema types to appropriate Java types.

Entity Schema:
%s

Example Style (ExampleEntityDto.java):
%s

Generate ONLY the Java code for these DTO files. Use the '=== FILE: path/to/Filename.java ===' marker format for each class.
Example path: `+"`%s/dto/%sResponse.java`",
						name, p.BasePackage, name, name, name,
						codeBlock("json", EntityJSON(entity)),
						codeBlock("java", p.Example("ExampleEntityDto.java")), root, name)
				},
			},
			Step{
				Name:       "Service for " + name,
				TargetPath: root + "/service/" + name + "Service.java",
				Prompt: func(p *Project) string {
					return fmt.Sprintf(`Generate a Spring Boot Service class for the `+"`%s`"+` entity in package `+"`%s.service`"+`.
It must inject %sRepository and handle CRUD logic, using the DTOs and Entity classes provided in the context.
Implement manual mapping logic between DTOs and Entities.

--- Generated Context Files ---
%s--- End Context ---

Example Style (ExampleService.java):
%s

Generate ONLY the Java code for %sService.java.`,
						name, p.BasePackage, name,
						p.ContextFor(
							root+"/model/"+name+".java",
							root+"/repository/"+name+"Repository.java",
							root+"/dto/"+name+"Response.java",
							root+"/dto/"+name+"CreateRequest.java",
							root+"/dto/"+name+"UpdateRequest.java",
						),
						codeBlock("java", p.Example("ExampleService.java")), name)
				},
			},
			Step{
				Name:       "Controller for " + name,
				TargetPath: root + "/controller/" + name + "Controller.java",
				Prompt: func(p *Project) string {
					return fmt.Sprintf(`Generate a Spring Boot REST Controller for the `+"`%s`"+` entity in package `+"`%s.controller`"+`.
The controller must inject %sService and define endpoints for all CRUD operations, returning ResponseEntity and using the DTOs provided in context.

--- Generated Context Files ---
%s--- End Context ---

Example Style (ExampleController.java):
%s

Generate ONLY the Java code for %sController.java.`,
						name, p.BasePackage, name,
						p.ContextFor(
							root+"/service/"+name+"Service.java",
							root+"/dto/"+name+"Response.java",
							root+"/dto/"+name+"CreateRequest.java",
							root+"/dto/"+name+"UpdateRequest.java",
						),
						codeBlock("java", p.Example("ExampleController.java")), name)
				},
			},
		)
	}
	return steps
}

// --- FastAPI ---

func fastapiStack() *Stack {
	return &Stack{
		Name: "fastapi",
		NewProject: func(s schema.Schema) *Project {
			name := strings.ToLower(projectBaseName(s)) + "_api"
			p := newProject(name, "", s, loadExamples("fastapi"))
			p.AddFile("database.py", p.Example("example_database.py"))
			p.AddFile("requirements.txt", p.Example("example_requirements.txt"))
			return p
		},
		Steps: fastapiSteps,
	}
}

func fastapiSteps(p *Project) []Step {
	steps := []Step{
		{
			Name:       "models.py",
			TargetPath: "models.py",
			Prompt: func(p *Project) string {
				return fmt.Sprintf(`You are an expert Python developer specializing in SQLAlchemy.
Based on the following JSON schema, generate the complete content for a single models.py file.

The file must contain all SQLAlchemy model class definitions.
- All models must inherit from a Base class created with declarative_base().
- For foreign keys, generate the relationship using relationship(back_populates="...") and ForeignKey correctly.
- Map data types: Integer/Long -> Integer, String/Text -> String, Boolean -> Boolean, Date/Timestamp -> DateTime.

Input JSON Schema:
%s

Example Style (models.py):
%s

Generate ONLY the Python code for the models.py file.`,
					codeBlock("json", p.SchemaJSON()),
					codeBlock("python", p.Example("example_models.py")))
			},
		},
		{
			Name:       "schemas.py",
			TargetPath: "schemas.py",
			Prompt: func(p *Project) string {
				return `You are an expert Python developer specializing in Pydantic V2.
Based on the JSON schema and the provided models.py content, generate the complete content for a single schemas.py file.

The file must contain Pydantic V2 models for each entity: EntityBase, EntityCreate, EntityUpdate, and a main Entity schema for responses.
- Use model_config = {"from_attributes": True} for schemas that map from ORM models.
- Map data types: Integer/Long -> int, String/Text -> str, Boolean -> bool, Date -> datetime.date.

Input JSON Schema:
` + codeBlock("json", p.SchemaJSON()) + `

--- Generated models.py for Context ---
` + p.ContextFor("models.py") + `--- End Context ---

Example Style (schemas.py):
` + codeBlock("python", p.Example("example_schemas.py")) + `

Generate ONLY the Python code for the schemas.py file.`
			},
		},
		{
			Name:       "crud.py",
			TargetPath: "crud.py",
			Prompt: func(p *Project) string {
				return `You are an expert Python developer.
Based on the generated models.py and schemas.py, generate the complete content for a single crud.py file.

The file must contain CRUD functions for ALL entities, using the exact class names and types from the context files.

--- Generated Context ---
` + p.ContextFor("models.py", "schemas.py") + `--- End Context ---

Example Style (crud.py):
` + codeBlock("python", p.Example("example_crud.py")) + `

Generate ONLY the Python code for crud.py.`
			},
		},
	}

	for _, entity := range p.Schema.Entities {
		entity := entity
		routerPath := "routers/" + strings.ToLower(entity.Name) + "_router.py"
		steps = append(steps, Step{
			Name:       "Router for " + entity.Name,
			TargetPath: routerPath,
			Prompt: func(p *Project) string {
				return fmt.Sprintf(`You are an expert Python developer creating FastAPI routers.
Generate the complete content for a router file for the `+"`%s`"+` entity.
The router must use APIRouter, define endpoints for all CRUD operations, and use the exact function names from crud.py and class names from schemas.py.

Entity Schema to implement:
%s

--- Full Context (models.py, schemas.py, crud.py) ---
%s--- End Context ---

Example Style (router.py):
%s

Generate ONLY the Python code for this router file.`,
					entity.Name, codeBlock("json", EntityJSON(entity)),
					p.ContextFor("models.py", "schemas.py", "crud.py"),
					codeBlock("python", p.Example("example_router.py")))
			},
		})
	}

	steps = append(steps, Step{
		Name:       "main.py",
		TargetPath: "main.py",
		Prompt: func(p *Project) string {
			var routerPaths []string
			for _, f := range p.Files() {
				if strings.HasPrefix(f.Path, "routers/") {
					routerPaths = append(routerPaths, f.Path)
				}
			}
			return `You are an expert Python developer creating a FastAPI main.py.
Generate the main.py file. It must create the FastAPI app instance, initialize the database via models.Base.metadata.create_all(bind=engine), and import and include the APIRouter for every entity.

--- Generated Routers Context ---
` + p.ContextFor(routerPaths...) + `--- End Context ---

Example Style (main.py):
` + codeBlock("python", p.Example("example_main.py")) + `

Generate ONLY the Python code for main.py.`
		},
	})
	return steps
}

// --- .NET ---

func dotnetStack() *Stack {
	return &Stack{
		Name: "dotnet",
		NewProject: func(s schema.Schema) *Project {
			name := projectBaseName(s) + "Api"
			p := newProject(name, name, s, loadExamples("dotnet"))
			p.AddFile("appsettings.json", p.Example("example.appsettings.json"))
			return p
		},
		Steps: dotnetSteps,
	}
}

func dotnetSteps(p *Project) []Step {
	var steps []Step
	for _, entity := range p.Schema.Entities {
		entity := entity
		name := entity.Name
		steps = append(steps, Step{
			Name:       "Model for " + name,
			TargetPath: p.Name + "/Models/" + name + ".cs",
			Prompt: func(p *Project) string {
				return fmt.Sprintf(`You are an expert C# developer creating EF Core entity models.
Based on the JSON schema for the entity '%s', generate the complete C# class.
Use navigation properties for relationships and data annotations for keys.

Entity Schema:
%s

Example Style:
%s

Generate ONLY the C# code for `+"`%s.cs`"+`, including the namespace `+"`%s.Models`"+`.`,
					name, codeBlock("json", EntityJSON(entity)),
					codeBlock("csharp", p.Example("ExampleModel.cs")), name, p.Name)
			},
		})
	}

	steps = append(steps, Step{
		Name:       "DataContext.cs",
		TargetPath: p.Name + "/Data/DataContext.cs",
		Prompt: func(p *Project) string {
			var modelPaths []string
			for _, f := range p.Files() {
				if strings.HasPrefix(f.Path, p.Name+"/Models/") {
					modelPaths = append(modelPaths, f.Path)
				}
			}
			return fmt.Sprintf(`Generate the DataContext.cs file for an EF Core DbContext in namespace `+"`%s.Data`"+`.
It must expose a DbSet for every model and configure relationships in OnModelCreating.

Use the following generated model files as context for class names and namespaces.
--- Generated Models Context ---
%s--- End Context ---

Example Style:
%s

Generate ONLY the C# code for DataContext.cs.`,
				p.Name, p.ContextFor(modelPaths...),
				codeBlock("csharp", p.Example("ExampleDataContext.cs")))
		},
	})

	for _, entity := range p.Schema.Entities {
		entity := entity
		name := entity.Name
		steps = append(steps, Step{
			Name:       "Controller for " + name,
			TargetPath: p.Name + "/Controllers/" + name + "sController.cs",
			Prompt: func(p *Project) string {
				return fmt.Sprintf(`Generate an ASP.NET Core API controller for the `+"`%s`"+` entity.
File name: `+"`%s/Controllers/%ssController.cs`"+`.
It must inject %s.Data.DataContext and define endpoints for all CRUD operations.

--- Generated Context ---
%s--- End Context ---

Example Style:
%s

Generate ONLY the C# code for %ssController.cs.`,
					name, p.Name, name, p.Name,
					p.ContextFor(p.Name+"/Models/"+name+".cs", p.Name+"/Data/DataContext.cs"),
					codeBlock("csharp", p.Example("ExampleController.cs")), name)
			},
		})
	}

	steps = append(steps,
		Step{
			Name:       "Program.cs",
			TargetPath: "Program.cs",
			Prompt: func(p *Project) string {
				return fmt.Sprintf(`Generate the Program.cs for a minimal ASP.NET Core Web API project named %s.
Register the DataContext from namespace `+"`%s.Data`"+` with dependency injection and map controllers.

Example Style:
%s

Generate ONLY the C# code for Program.cs.`,
					p.Name, p.Name, codeBlock("csharp", p.Example("ExampleProgram.cs")))
			},
		},
		Step{
			Name:       p.Name + ".csproj",
			TargetPath: p.Name + ".csproj",
			Prompt: func(p *Project) string {
				return fmt.Sprintf(`Generate the .csproj file for an ASP.NET Core Web API project named %s with EF Core packages.

Example Style:
%s

Generate ONLY the XML content for the .csproj file.`,
					p.Name, codeBlock("xml", p.Example("example.csproj")))
			},
		},
	)
	return steps
}

func codeBlock(lang, content string) string {
	return "```" + lang + "\n" + content + "\n```"
}
