package router

// Component keys. Loaders are registered under these names.
const (
	LayoutDefault    = "layouts/Default"
	ViewHome         = "views/Home"
	ViewUserProfile  = "views/UserProfile"
	ViewCreateRecipe = "views/CreateRecipe"
	ViewListRecipes  = "views/ListRecipes"
)

// Route names.
const (
	RouteHome         = "home"
	RouteProfile      = "profile"
	RouteCreateRecipe = "create-recipe"
	RouteEditRecipe   = "edit-recipe"
	RouteListRecipes  = "list-recipes"
)

// ParamRecipeID is the path parameter of the edit route.
const ParamRecipeID = "recipeId"

// Routes is the route table of the CLI. The edit route reuses the create
// view; it tells the two apart by the presence of ParamRecipeID.
var Routes = []Route{
	{
		Path:      "/",
		Component: LayoutDefault,
		Children: []Route{
			{Path: "", Name: RouteHome, Component: ViewHome},
			{Path: "/profile", Name: RouteProfile, Component: ViewUserProfile},
			{Path: "/create-recipe", Name: RouteCreateRecipe, Component: ViewCreateRecipe},
			{Path: "/edit-recipe/:" + ParamRecipeID, Name: RouteEditRecipe, Component: ViewCreateRecipe},
			{Path: "/my-recipes", Name: RouteListRecipes, Component: ViewListRecipes},
		},
	},
}
